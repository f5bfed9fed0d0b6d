package common

// User-facing error messages. These are fixed, localized strings keyed by
// error kind; raw internal errors are logged server-side and never returned
// to the caller.
const (
	MsgBadRequest        = "Requisição inválida"
	MsgUnauthenticated   = "Autenticação necessária"
	MsgForbidden         = "Acesso negado"
	MsgNotFound          = "Recurso não encontrado"
	MsgConflict          = "Operação em conflito com o estado atual"
	MsgInternal          = "Erro interno. Tente novamente mais tarde"
	MsgEmptyFile         = "Arquivo vazio ou sem linhas de dados"
	MsgTooManyRows       = "O arquivo excede o limite de 500 transações por importação"
	MsgExtractRateLimit  = "Limite de requisições de IA excedido. Aguarde alguns instantes e tente novamente"
	MsgExtractNoCredits  = "Créditos de IA insuficientes para processar o documento"
	MsgExtractFailed     = "Não foi possível processar o documento"
	MsgFileAlreadyQueued = "Este arquivo já está sendo processado"
)
