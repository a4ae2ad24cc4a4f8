package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocumentDraft    = "draft"
	DocumentPending  = "pending"
	DocumentSigned   = "signed"
	DocumentArchived = "archived"
)

const (
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteDeclined = "declined"
)

const (
	SubscriptionAtivo    = "ativo"
	SubscriptionExpirado = "expirado"
	PlanoMensal          = "mensal"
)

const (
	CreditoLogDebito  = "debito"
	CreditoLogCredito = "credito"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    string     `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UserProfile is the usuarios_perfil row created alongside registration.
type UserProfile struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	Telefone     string     `json:"telefone"`
	Idade        string     `json:"idade,omitempty"`
	Sexo         string     `json:"sexo,omitempty"`
	Profissao    string     `json:"profissao,omitempty"`
	UltimoAcesso *time.Time `json:"ultimo_acesso,omitempty"`
	UserAgent    string     `json:"user_agent,omitempty"`
	DataCriacao  time.Time  `gorm:"autoCreateTime" json:"data_criacao"`
}

func (UserProfile) TableName() string { return "usuarios_perfil" }

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CreditWallet holds the spendable balance and the one-shot trial flags.
// TrialAtivo and TrialUsado are flipped together, exactly once, by the
// wallet store's conditional update.
type CreditWallet struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Creditos   int    `gorm:"not null;default:0" json:"creditos"`
	TrialAtivo bool   `gorm:"not null;default:true" json:"trial_ativo"`
	TrialUsado bool   `gorm:"not null;default:false" json:"trial_usado"`
}

func (CreditWallet) TableName() string { return "carteira_creditos" }

func (w *CreditWallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// Subscription rows are written by the billing webhook, never by the action
// gate. At most one row per user carries status "ativo".
type Subscription struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string     `gorm:"type:uuid;index;not null" json:"user_id"`
	TipoPlano  string     `json:"tipo_plano"`
	Status     string     `gorm:"index" json:"status"`
	DataInicio time.Time  `json:"data_inicio"`
	DataFim    *time.Time `json:"data_fim,omitempty"`
}

func (Subscription) TableName() string { return "assinaturas" }

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Contract is publicly readable by id: the signing link carries no session.
// Status "signed" implies AssinaturaCliente is non-nil, and vice versa.
type Contract struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Titulo            string    `json:"titulo"`
	Texto             string    `json:"texto"`
	Status            string    `gorm:"not null;default:draft" json:"status"`
	AssinaturaCliente *string   `json:"assinatura_cliente"`
	CriadoEm          time.Time `gorm:"autoCreateTime" json:"criado_em"`
	AtualizadoEm      time.Time `gorm:"autoUpdateTime" json:"atualizado_em"`
}

func (Contract) TableName() string { return "contratos" }

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Quote struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string    `gorm:"type:uuid;index;not null" json:"user_id"`
	NomeCliente    string    `json:"nome_cliente"`
	ProdutoServico string    `json:"produto_servico"`
	Detalhes       string    `json:"detalhes"`
	Valor          float64   `json:"valor"`
	Status         string    `gorm:"not null;default:sent" json:"status"`
	CriadoEm       time.Time `gorm:"autoCreateTime" json:"criado_em"`
}

func (Quote) TableName() string { return "orcamentos" }

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type CreditLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Tipo       string    `json:"tipo"`
	Quantidade int       `json:"quantidade"`
	Descricao  string    `json:"descricao"`
	Data       time.Time `gorm:"autoCreateTime" json:"data"`
}

func (CreditLog) TableName() string { return "creditos_log" }

func (l *CreditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// HistoryItem is append-only. UserID is nil for anonymous entries written by
// the public signing flow; ContratoID is a weak reference kept only so the
// feed can preview the linked contract title.
type HistoryItem struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *string   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ContratoID *string   `gorm:"type:uuid" json:"contrato_id,omitempty"`
	Contrato   *Contract `gorm:"foreignKey:ContratoID" json:"contrato,omitempty"`
	Acao       string    `gorm:"not null" json:"acao"`
	Valor      string    `json:"valor"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Data       time.Time `gorm:"autoCreateTime;index" json:"data"`
}

func (HistoryItem) TableName() string { return "historico" }

func (h *HistoryItem) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

type CompanyProfile struct {
	ID               string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	NomeEmpresa      string `json:"nome_empresa"`
	LogoURL          string `json:"logo_url,omitempty"`
	Identificador    string `json:"identificador"`
	Endereco         string `json:"endereco"`
	Telefone         string `json:"telefone"`
	AssinaturaPadrao string `json:"assinatura_padrao,omitempty"`
	TipoAssinatura   string `json:"tipo_assinatura,omitempty"`
}

func (CompanyProfile) TableName() string { return "perfis_empresa" }

func (p *CompanyProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
