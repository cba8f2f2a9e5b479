package whatsapp

import "fmt"

// Severidade de um erro da Cloud API. Critical é o que gera alerta
// de conta no dashboard (pagamento, bloqueio, token).
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
)

type ErrorClassification struct {
	Category    string
	Severity    Severity
	UserMessage string
}

// Tabela de erros conhecidos da Cloud API.
// Ref: https://developers.facebook.com/docs/whatsapp/cloud-api/support/error-codes
var errorTable = map[int]ErrorClassification{
	0:   {"auth", SeverityCritical, "Token de acesso inválido ou expirado"},
	190: {"auth", SeverityCritical, "Token de acesso expirado. Reconecte a instância"},
	10:  {"permission", SeverityCritical, "Permissão negada para enviar mensagens"},
	100: {"request", SeverityError, "Parâmetro inválido na requisição"},
	368: {"policy", SeverityCritical, "Conta temporariamente bloqueada por violação das políticas do WhatsApp"},

	80007:  {"rate_limit", SeverityWarning, "Limite de requisições da conta atingido. Tente novamente em alguns minutos"},
	130429: {"rate_limit", SeverityWarning, "Limite de volume de mensagens atingido"},
	131048: {"rate_limit", SeverityCritical, "Envio pausado: limite de spam atingido. Revise a qualidade das mensagens"},
	131056: {"rate_limit", SeverityWarning, "Muitas mensagens para o mesmo destinatário. Aguarde antes de reenviar"},

	131000: {"internal", SeverityError, "Falha interna do WhatsApp. Tente novamente"},
	131008: {"request", SeverityError, "Parâmetro obrigatório ausente na requisição"},
	131009: {"request", SeverityError, "Valor de parâmetro inválido"},

	131026: {"recipient", SeverityError, "Mensagem não pôde ser entregue ao destinatário"},
	131047: {"re_engagement", SeverityError, "Mais de 24h desde a última resposta do destinatário. Use um template aprovado"},
	131049: {"recipient", SeverityError, "Mensagem não entregue para preservar o engajamento do destinatário"},
	131050: {"opt_out", SeverityError, "Destinatário optou por não receber mensagens de marketing"},
	130472: {"recipient", SeverityError, "Número do destinatário faz parte de um experimento da Meta"},

	131031: {"account", SeverityCritical, "Conta do WhatsApp Business bloqueada"},
	131042: {"payment", SeverityCritical, "Problema de pagamento na conta. Verifique o método de pagamento no Business Manager"},
	131045: {"account", SeverityCritical, "Número não verificado. Complete o registro do número"},
	131057: {"account", SeverityWarning, "Conta em modo de manutenção"},
	133010: {"account", SeverityCritical, "Número não registrado na plataforma do WhatsApp Business"},

	131051: {"message", SeverityError, "Tipo de mensagem não suportado"},
	131052: {"media", SeverityError, "Falha ao baixar a mídia do destinatário"},
	131053: {"media", SeverityError, "Falha ao enviar a mídia"},
}

// ClassifyError é total: código desconhecido vira categoria "unknown",
// nunca erro.
func ClassifyError(code int) ErrorClassification {
	if c, ok := errorTable[code]; ok {
		return c
	}
	return ErrorClassification{
		Category:    "unknown",
		Severity:    SeverityError,
		UserMessage: fmt.Sprintf("Erro desconhecido do WhatsApp (código %d)", code),
	}
}

// IsCriticalError diz se o código deve gerar alerta de conta.
func IsCriticalError(code int) bool {
	c, ok := errorTable[code]
	return ok && c.Severity == SeverityCritical
}

// IsOptOutError identifica destinatário que pediu pra não receber mais.
func IsOptOutError(code int) bool {
	c, ok := errorTable[code]
	return ok && c.Category == "opt_out"
}
