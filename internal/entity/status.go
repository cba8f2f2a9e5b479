package entity

// DeliveryStatus representa o estado de entrega de uma mensagem de campanha,
// na ordem reportada pelo webhook da Meta.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
	StatusFailed    DeliveryStatus = "failed"
)

// Tabela de progressão explícita. O status só anda pra frente,
// nunca pra trás (exceto failed, que sempre se aplica).
var statusRank = map[DeliveryStatus]int{
	StatusPending:   0,
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
	StatusFailed:    4,
}

// Rank retorna a posição do status na ordem de progressão.
// Status desconhecido conta como pending (0).
func (s DeliveryStatus) Rank() int {
	return statusRank[s]
}

// ParseDeliveryStatus valida o status cru vindo do webhook.
func ParseDeliveryStatus(raw string) (DeliveryStatus, bool) {
	s := DeliveryStatus(raw)
	_, ok := statusRank[s]
	return s, ok
}
