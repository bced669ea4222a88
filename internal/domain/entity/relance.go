package entity

import "time"

// RelanceType tipo de recordatorio; depende del estado derivado de la deuda.
type RelanceType string

const (
	RelanceAmicable RelanceType = "amicable"
	RelanceFirm     RelanceType = "firm"
	RelanceDueDate  RelanceType = "due-date"
)

// Canales y estados tal como se guardan en el almacén de registros.
const (
	ChannelWhatsApp = "WhatsApp"
	ChannelSMS      = "SMS"
	ChannelCall     = "Appel"

	RelanceScheduled = "Programmée"
	RelanceSent      = "Envoyée"
	RelanceFailed    = "Échec"
)

// Relance recordatorio enviado (o programado) a un cliente por una deuda.
type Relance struct {
	ID          string
	DebtID      string
	ClientID    string
	Type        RelanceType
	Channel     string
	Message     string
	Status      string
	ScheduledAt *time.Time
	SentAt      *time.Time
}
