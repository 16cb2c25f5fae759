// Package service implementa la orquestación del volcado de ventas: lee la
// casilla, parsea cada pedido y lo vuelca a la planilla y al padrón.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/edicionesgcc/poblar-ventas/internal/mail"
	"github.com/edicionesgcc/poblar-ventas/internal/model"
	"github.com/edicionesgcc/poblar-ventas/internal/parse"
	"github.com/edicionesgcc/poblar-ventas/internal/repository"
	"github.com/edicionesgcc/poblar-ventas/internal/validation"
)

// MailSource define el contrato con la casilla de correo.
type MailSource interface {
	Search(ctx context.Context, query string) ([]mail.Message, error)
	AddLabel(ctx context.Context, threadID, label string) error
	MarkRead(ctx context.Context, messageID string) error
}

// Ledger define el destino tabular de las filas de venta.
type Ledger interface {
	AppendSale(ctx context.Context, row model.SaleRow) error
	ExchangeRate(ctx context.Context) (float64, error)
}

// Registry define el padrón de clientes.
type Registry interface {
	ListNames(ctx context.Context) ([]string, error)
	Append(ctx context.Context, rec model.CustomerRecord) error
}

// RateSource consulta la cotización del dólar en una fuente externa.
type RateSource interface {
	OfficialSellRate(ctx context.Context) (float64, error)
}

var (
	// ErrEmptyBody indica un correo sin cuerpo de texto plano.
	ErrEmptyBody = errors.New("email body is empty")
	// ErrInvalidRate indica que ninguna fuente entregó una cotización válida.
	ErrInvalidRate = errors.New("invalid or missing dollar rate")
)

// RunReport resume el resultado de una corrida.
type RunReport struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Service orquesta la lectura de la casilla y el volcado serial a planilla y
// padrón. Un mutex garantiza un único escritor por vez.
type Service struct {
	mailbox    MailSource
	ledger     Ledger
	registry   Registry
	rateSource RateSource // opcional: si es nil se usa la cotización de la planilla
	watermark  string
	logger     *zap.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewService crea el orquestador con sus colaboradores.
func NewService(mailbox MailSource, ledger Ledger, registry Registry, rateSource RateSource, watermark string, logger *zap.Logger) *Service {
	return &Service{
		mailbox:    mailbox,
		ledger:     ledger,
		registry:   registry,
		rateSource: rateSource,
		watermark:  watermark,
		logger:     logger,
		now:        time.Now,
	}
}

// Run procesa todos los correos pendientes en orden ascendente de número de
// pedido, sin importar el orden en que la casilla los devuelve. Cualquier
// problema de integridad aborta la corrida completa sin confirmar el correo
// que falló, así la próxima corrida lo reintenta.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []mail.Message
	for _, query := range mail.BuildQueries(s.watermark) {
		found, err := s.mailbox.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search mailbox: %w", err)
		}
		messages = append(messages, found...)
	}
	s.logger.Info("mailbox searched", zap.Int("messages", len(messages)))

	type pending struct {
		msg         mail.Message
		orderNumber int
	}
	pendings := make([]pending, 0, len(messages))
	for _, m := range messages {
		n, err := parse.OrderNumberFromSubject(m.Subject)
		if err != nil {
			return nil, err
		}
		pendings = append(pendings, pending{msg: m, orderNumber: n})
	}

	sort.Slice(pendings, func(i, j int) bool {
		return pendings[i].orderNumber < pendings[j].orderNumber
	})

	report := &RunReport{}
	for _, p := range pendings {
		skipped, err := s.processMessage(ctx, p.msg, p.orderNumber)
		if err != nil {
			return nil, fmt.Errorf("order #%07d: %w", p.orderNumber, err)
		}
		if skipped {
			report.Skipped++
		} else {
			report.Processed++
		}
	}

	s.logger.Info("run finished",
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// StartPolling dispara corridas periódicas hasta que se cancele el contexto.
func (s *Service) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Run(ctx); err != nil {
					s.logger.Error("scheduled run aborted", zap.Error(err))
				}
			}
		}
	}()
}

func (s *Service) processMessage(ctx context.Context, msg mail.Message, orderNumber int) (skipped bool, err error) {
	if strings.TrimSpace(msg.Body) == "" {
		return false, ErrEmptyBody
	}

	if !parse.HasSupportedCurrency(msg.Body) {
		s.logger.Info("skipping email without supported currency",
			zap.String("subject", msg.Subject))
		if err := s.mailbox.AddLabel(ctx, msg.ThreadID, mail.LabelSkipped); err != nil {
			return false, fmt.Errorf("label skipped: %w", err)
		}
		if err := s.mailbox.MarkRead(ctx, msg.ID); err != nil {
			return false, fmt.Errorf("mark read: %w", err)
		}
		return true, nil
	}

	order, err := s.parseOrder(msg.Body, orderNumber)
	if err != nil {
		return false, err
	}

	if err := validation.ValidateOrder(order); err != nil {
		return false, err
	}

	if err := s.registerCustomer(ctx, msg.Body, order.CustomerName); err != nil {
		return false, err
	}

	dolar, err := s.exchangeRate(ctx)
	if err != nil {
		return false, err
	}

	orderDate := s.now()
	if order.OrderDate != nil {
		orderDate = *order.OrderDate
	}

	for _, item := range order.Items {
		total := item.Price
		if item.Currency == model.CurrencyUSD {
			total *= dolar
		}

		row := model.SaleRow{
			OrderNumber:  order.OrderNumber,
			CustomerName: order.CustomerName,
			Quantity:     item.Quantity,
			ItemName:     item.Name,
			PricePerUnit: total / float64(item.Quantity),
			OrderDate:    orderDate,
			Shipping:     order.Shipping,
			Payment:      order.Payment,
		}
		if err := s.ledger.AppendSale(ctx, row); err != nil {
			return false, fmt.Errorf("append sale: %w", err)
		}

		s.logger.Info("sale row appended",
			zap.Int("order", order.OrderNumber),
			zap.String("item", item.Name),
			zap.Int("quantity", item.Quantity),
			zap.Float64("pricePerUnit", row.PricePerUnit),
		)
	}

	// El correo se confirma recién con todas sus filas escritas.
	if err := s.mailbox.MarkRead(ctx, msg.ID); err != nil {
		return false, fmt.Errorf("mark read: %w", err)
	}
	if err := s.mailbox.AddLabel(ctx, msg.ThreadID, mail.LabelProcessed); err != nil {
		return false, fmt.Errorf("label processed: %w", err)
	}

	s.logger.Info("order processed",
		zap.Int("order", order.OrderNumber),
		zap.String("customer", order.CustomerName),
		zap.Int("items", len(order.Items)),
	)
	return false, nil
}

func (s *Service) parseOrder(body string, orderNumber int) (model.ParsedOrder, error) {
	fields := parse.ParseOrderFields(body)

	lines := parse.ExtractItemLines(body)
	items := make([]model.ParsedItem, 0, len(lines))
	for i, line := range lines {
		item, err := parse.ParseItemLine(line)
		if err != nil {
			return model.ParsedOrder{}, fmt.Errorf("item line %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	return model.ParsedOrder{
		OrderNumber:  orderNumber,
		CustomerName: fields.CustomerName,
		OrderDate:    fields.OrderDate,
		Payment:      parse.DetectPayment(body),
		Shipping:     parse.DetectShipping(body),
		Items:        items,
	}, nil
}

// registerCustomer da de alta al cliente si su nombre todavía no figura en el
// padrón. La coincidencia es por igualdad exacta, sin normalizar: dos grafías
// distintas son dos clientes. Un cliente existente nunca se actualiza.
func (s *Service) registerCustomer(ctx context.Context, body, name string) error {
	rec, ok := parse.ParseCustomerBlock(body, name)
	if !ok {
		s.logger.Warn("no billing block found in email", zap.String("customer", name))
		rec = model.CustomerRecord{Name: name}
	}

	names, err := s.registry.ListNames(ctx)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}

	for _, existing := range names {
		if existing == rec.Name {
			return nil
		}
	}

	if err := s.registry.Append(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrCustomerExists) {
			return nil
		}
		return fmt.Errorf("append customer: %w", err)
	}

	s.logger.Info("new customer registered", zap.String("customer", rec.Name))
	return nil
}

func (s *Service) exchangeRate(ctx context.Context) (float64, error) {
	if s.rateSource != nil {
		rate, err := s.rateSource.OfficialSellRate(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidRate, err)
		}
		return rate, nil
	}

	rate, err := s.ledger.ExchangeRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRate, err)
	}
	if rate <= 0 {
		return 0, ErrInvalidRate
	}
	return rate, nil
}
