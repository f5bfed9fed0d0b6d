package extraction

// extractionPrompt is the fixed instruction sent alongside every document.
// The output shape and field names are part of the contract with the parser;
// changing them requires changing parseModelResponse and its tests.
const extractionPrompt = `You are a financial document parser for Brazilian bank statements, invoices and receipts.

Task:
- Extract ALL financial transactions from the attached document or image.
- Output STRICT JSON only (no comments, no trailing commas, no extra text).
- Output a single JSON object: {"transactions": [...]}.

Each element of "transactions" must have these fields:
- "description": string, short human-readable description
- "amount": number, always positive (direction is carried by "type")
- "type": "income" or "expense"
- "payment_method": one of "pix", "boleto", "credito", "debito", "dinheiro", "transferencia"
- "payment_source": string, bank or card name, or "" if unknown
- "transaction_date": string, ISO format "YYYY-MM-DD"
- "notes": string, or "" if nothing relevant

Rules:
- If a field cannot be determined, use the empty string (never null).
- If the document shows no transactions, return {"transactions": []}.
- Return ONLY valid raw JSON. Do NOT wrap the response in code fences.`
