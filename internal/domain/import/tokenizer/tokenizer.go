// Package tokenizer turns raw CSV file text into header-mapped row records.
// It sniffs the delimiter from the header line and tolerates Portuguese and
// English header spellings.
package tokenizer

import (
	"errors"
	"strings"
)

// ErrEmptyFile is returned when the file has fewer than two non-blank lines
// (header plus at least one data row).
var ErrEmptyFile = errors.New("csv file has no data rows")

// RawRow is the header-mapped view of one data line. All values are raw
// strings straight from the file; normalization and validation happen later.
type RawRow struct {
	RowNumber      int // 1-based position among data lines, as users see it
	Descricao      string
	Valor          string
	Tipo           string
	FormaPagamento string
	FontePagamento string
	Data           string
	Observacao     string
}

// Accepted header spellings per semantic field, in priority order. The first
// header column matching any spelling wins.
var headerSynonyms = map[string][]string{
	"descricao":       {"descricao", "descrição", "description", "desc"},
	"valor":           {"valor", "amount", "value"},
	"tipo":            {"tipo", "type"},
	"forma_pagamento": {"forma_pagamento", "forma de pagamento", "forma pagamento", "payment_method", "payment method", "pagamento"},
	"fonte_pagamento": {"fonte_pagamento", "fonte de pagamento", "fonte/cartao", "fonte/cartão", "fonte", "cartao", "cartão", "payment_source", "source"},
	"data":            {"data", "date"},
	"observacao":      {"observacao", "observação", "obs", "notes", "note"},
}

// Tokenize parses raw UTF-8 CSV text into row records in file order. The
// delimiter is ';' when the header line contains one, ',' otherwise. Rows
// whose fields are all empty after trimming are skipped but still consume a
// row number, so reported numbers match what the user sees in a spreadsheet.
func Tokenize(raw string) ([]RawRow, error) {
	raw = strings.TrimPrefix(raw, "﻿")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil, ErrEmptyFile
	}

	delimiter := byte(',')
	if strings.Contains(lines[0], ";") {
		delimiter = ';'
	}

	headers := splitFields(lines[0], delimiter)
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}
	columns := mapColumns(headers)

	var rows []RawRow
	for i, line := range lines[1:] {
		fields := splitFields(line, delimiter)

		pick := func(semantic string) string {
			idx, ok := columns[semantic]
			if !ok || idx >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[idx])
		}

		row := RawRow{
			RowNumber:      i + 1,
			Descricao:      pick("descricao"),
			Valor:          pick("valor"),
			Tipo:           pick("tipo"),
			FormaPagamento: pick("forma_pagamento"),
			FontePagamento: pick("fonte_pagamento"),
			Data:           pick("data"),
			Observacao:     pick("observacao"),
		}
		if isBlank(row) {
			continue
		}
		if row.Tipo == "" {
			row.Tipo = "expense"
		}
		if row.FormaPagamento == "" {
			row.FormaPagamento = "pix"
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func mapColumns(headers []string) map[string]int {
	columns := make(map[string]int, len(headerSynonyms))
	for semantic, synonyms := range headerSynonyms {
		for _, syn := range synonyms {
			for idx, h := range headers {
				if h == syn {
					columns[semantic] = idx
					break
				}
			}
			if _, ok := columns[semantic]; ok {
				break
			}
		}
	}
	return columns
}

// splitFields tokenizes one line honoring double-quoted fields with doubled
// quote escaping. An unmatched opening quote does not fail; the field simply
// runs to the end of the line.
func splitFields(line string, delimiter byte) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delimiter && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	fields = append(fields, field.String())
	return fields
}

func isBlank(r RawRow) bool {
	return r.Descricao == "" && r.Valor == "" && r.Tipo == "" &&
		r.FormaPagamento == "" && r.FontePagamento == "" &&
		r.Data == "" && r.Observacao == ""
}
