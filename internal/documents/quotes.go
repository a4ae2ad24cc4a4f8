package documents

import (
	"context"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

// QuoteInput carries the user-entered orcamento fields.
type QuoteInput struct {
	NomeCliente    string  `json:"nome_cliente"`
	ProdutoServico string  `json:"produto_servico"`
	Detalhes       string  `json:"detalhes"`
	Valor          float64 `json:"valor"`
}

// CreateQuote stores an orcamento with status sent. Callers route this
// through the action gate with the orcamento kind. Transitions beyond sent
// are not driven here.
func (s *Service) CreateQuote(ctx context.Context, userID string, in QuoteInput) (*models.Quote, error) {
	q := models.Quote{
		UserID:         userID,
		NomeCliente:    in.NomeCliente,
		ProdutoServico: in.ProdutoServico,
		Detalhes:       in.Detalhes,
		Valor:          in.Valor,
		Status:         models.QuoteSent,
	}
	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) ListQuotes(ctx context.Context, userID string) ([]models.Quote, error) {
	var qs []models.Quote
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("criado_em desc").
		Find(&qs).Error
	return qs, err
}

func (s *Service) CountSentQuotes(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Quote{}).
		Where("user_id = ? AND status = ?", userID, models.QuoteSent).
		Count(&n).Error
	return n, err
}
