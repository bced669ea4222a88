package debt

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/domain"
	engine "github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

var validChannels = map[string]string{
	"whatsapp": entity.ChannelWhatsApp,
	"sms":      entity.ChannelSMS,
	"appel":    entity.ChannelCall,
	"call":     entity.ChannelCall,
}

// SuggestRelanceType firm si alguna deuda abierta del cliente está vencida, si no amicable.
func (uc *UseCase) SuggestRelanceType(ctx context.Context, clientID string) (entity.RelanceType, error) {
	open, err := uc.openDebts(ctx, uc.repos, clientID, "")
	if err != nil {
		return "", err
	}
	return uc.suggest(open), nil
}

// BuildRelance arma el mensaje sin guardarlo (vista previa).
func (uc *UseCase) BuildRelance(ctx context.Context, req dto.RelanceRequest) (*dto.RelanceDTO, error) {
	r, phone, err := uc.build(ctx, uc.repos, req)
	if err != nil {
		return nil, err
	}
	out := toRelanceDTO(r)
	if r.Channel == entity.ChannelWhatsApp {
		out.Link = uc.composer.WhatsAppLink(phone, r.Message)
	}
	return &out, nil
}

// SendRelance registra el recordatorio como enviado y, para WhatsApp, devuelve el enlace wa.me.
func (uc *UseCase) SendRelance(ctx context.Context, req dto.RelanceRequest) (*dto.RelanceDTO, error) {
	var (
		r     *entity.Relance
		phone string
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Set) error {
		var err error
		if r, phone, err = uc.build(ctx, repos, req); err != nil {
			return err
		}
		if err := repos.Relances.Create(ctx, r); err != nil {
			return err
		}
		sentAt := uc.clock.Now()
		if err := repos.Relances.MarkSent(ctx, r.ID, sentAt); err != nil {
			return err
		}
		r.Status = entity.RelanceSent
		r.SentAt = &sentAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("client_id", r.ClientID).
		Str("debt_id", r.DebtID).
		Str("type", string(r.Type)).
		Str("channel", r.Channel).
		Msg("relance enviada")

	out := toRelanceDTO(r)
	if r.Channel == entity.ChannelWhatsApp {
		out.Link = uc.composer.WhatsAppLink(phone, r.Message)
	}
	return &out, nil
}

// ListRelances historial de recordatorios de una deuda.
func (uc *UseCase) ListRelances(ctx context.Context, debtID string) ([]dto.RelanceDTO, error) {
	if _, err := uc.repos.Debts.GetByID(ctx, debtID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Relances.ListByDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RelanceDTO, 0, len(list))
	for _, r := range list {
		out = append(out, toRelanceDTO(r))
	}
	return out, nil
}

// build resuelve cliente, deudas, tipo y canal y arma el mensaje. Devuelve el teléfono del cliente.
func (uc *UseCase) build(ctx context.Context, repos repository.Set, req dto.RelanceRequest) (*entity.Relance, string, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, "", domain.NewValidationError("client_id", "el cliente es obligatorio")
	}
	channel := entity.ChannelWhatsApp
	if c := strings.TrimSpace(req.Channel); c != "" {
		v, ok := validChannels[strings.ToLower(c)]
		if !ok {
			return nil, "", domain.NewValidationError("channel", "canal desconocido: "+c)
		}
		channel = v
	}

	client, err := repos.Clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, "", err
	}
	open, err := uc.openDebts(ctx, repos, req.ClientID, req.DebtID)
	if err != nil {
		return nil, "", err
	}

	typ := uc.suggest(open)
	if t := strings.TrimSpace(req.Type); t != "" {
		switch entity.RelanceType(strings.ToLower(t)) {
		case entity.RelanceAmicable, entity.RelanceFirm, entity.RelanceDueDate:
			typ = entity.RelanceType(strings.ToLower(t))
		default:
			return nil, "", domain.NewValidationError("type", "tipo de relance desconocido: "+t)
		}
	}

	now := uc.clock.Now()
	r := &entity.Relance{
		ClientID:    req.ClientID,
		DebtID:      open[0].ID,
		Type:        typ,
		Channel:     channel,
		Status:      entity.RelanceScheduled,
		ScheduledAt: &now,
	}
	switch typ {
	case entity.RelanceFirm:
		worst := 0
		for i := range open {
			if n := engine.DaysOverdue(&open[i], now); n > worst {
				worst = n
				r.DebtID = open[i].ID
			}
		}
		r.Message = uc.composer.Firm(client.FullName, open, worst)
	case entity.RelanceDueDate:
		var next *entity.Installment
		for i := range open {
			it := engine.NextInstallment(&open[i], now)
			if it != nil && (next == nil || it.Date.Before(next.Date)) {
				next = it
				r.DebtID = open[i].ID
			}
		}
		if next == nil {
			return nil, "", domain.NewValidationError("type", "ninguna deuda abierta tiene cuotas futuras")
		}
		r.Message = uc.composer.DueDate(client.FullName, *next)
	default:
		r.Message = uc.composer.Amicable(client.FullName, open)
	}
	return r, client.Phone, nil
}

// openDebts deudas abiertas del cliente, de la más antigua a la más reciente.
// Con debtID limita a esa deuda, que debe pertenecer al cliente.
func (uc *UseCase) openDebts(ctx context.Context, repos repository.Set, clientID, debtID string) ([]entity.Debt, error) {
	list, err := repos.Debts.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	found := debtID == ""
	open := make([]entity.Debt, 0, len(list))
	for _, d := range list {
		if debtID != "" {
			if d.ID != debtID {
				continue
			}
			found = true
		}
		if d.IsOpen() {
			open = append(open, *d)
		}
	}
	if !found {
		return nil, domain.NewValidationError("debt_id", "la deuda no pertenece al cliente")
	}
	if len(open) == 0 {
		return nil, domain.ErrNoOpenDebt
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].CreatedAt.Before(open[j].CreatedAt) })
	return open, nil
}

func (uc *UseCase) suggest(open []entity.Debt) entity.RelanceType {
	now := uc.clock.Now()
	for i := range open {
		if engine.Status(&open[i], now) == entity.DebtOverdue {
			return entity.RelanceFirm
		}
	}
	return entity.RelanceAmicable
}
