package documents

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/history"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Contract{}, &models.Quote{}, &models.HistoryItem{}))
	return NewService(db, zap.NewNop().Sugar()), db
}

func TestCreateProducesDraft(t *testing.T) {
	svc, _ := testService(t)
	c, err := svc.Create(context.Background(), "owner", "Contrato de Serviço", "Cláusulas...")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentDraft, c.Status)
	assert.Nil(t, c.AssinaturaCliente)
	assert.NotEmpty(t, c.ID)
}

func TestSignRoundTrip(t *testing.T) {
	svc, db := testService(t)
	c, err := svc.Create(context.Background(), "owner", "Contrato", "Texto")
	require.NoError(t, err)

	art := models.BitmapArtifact("data:image/png;base64,aGVsbG8=")
	signed, err := svc.Sign(context.Background(), c.ID, art)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentSigned, signed.Status)
	require.NotNil(t, signed.AssinaturaCliente)
	assert.Equal(t, art.String(), *signed.AssinaturaCliente)
	assert.True(t, signed.AtualizadoEm.After(signed.CriadoEm) || signed.AtualizadoEm.Equal(signed.CriadoEm))

	// The public read sees the signed state.
	fetched, err := svc.FetchByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentSigned, fetched.Status)
	require.NotNil(t, fetched.AssinaturaCliente)

	// Signing appends an anonymous history entry.
	var rows []models.HistoryItem
	require.NoError(t, db.Where("acao = ?", history.AcaoAssinaturaSemLogin).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].UserID)
	require.NotNil(t, rows[0].ContratoID)
	assert.Equal(t, c.ID, *rows[0].ContratoID)
}

func TestReSignIsRejected(t *testing.T) {
	svc, _ := testService(t)
	c, err := svc.Create(context.Background(), "owner", "Contrato", "Texto")
	require.NoError(t, err)

	first := models.BitmapArtifact("data:image/png;base64,Zmlyc3Q=")
	_, err = svc.Sign(context.Background(), c.ID, first)
	require.NoError(t, err)

	second := models.BitmapArtifact("data:image/png;base64,c2Vjb25k")
	_, err = svc.Sign(context.Background(), c.ID, second)
	require.ErrorIs(t, err, ErrAlreadySigned)

	fetched, err := svc.FetchByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.AssinaturaCliente)
	assert.Equal(t, first.String(), *fetched.AssinaturaCliente, "completed signature is never overwritten")
}

func TestSignUnknownContract(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Sign(context.Background(), "7f1e0c9a-0000-0000-0000-000000000000", models.BitmapArtifact("data:image/png;base64,eA=="))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSignRejectsEmptyArtifact(t *testing.T) {
	svc, _ := testService(t)
	c, err := svc.Create(context.Background(), "owner", "Contrato", "Texto")
	require.NoError(t, err)

	_, err = svc.Sign(context.Background(), c.ID, models.SignatureArtifact{})
	require.ErrorIs(t, err, models.ErrInvalidArtifact)
}

func TestSignWithLogoSentinel(t *testing.T) {
	svc, _ := testService(t)
	c, err := svc.Create(context.Background(), "owner", "Contrato", "Texto")
	require.NoError(t, err)

	signed, err := svc.Sign(context.Background(), c.ID, models.CompanyLogoArtifact())
	require.NoError(t, err)
	require.NotNil(t, signed.AssinaturaCliente)
	assert.Equal(t, models.LogoSentinel, *signed.AssinaturaCliente)

	art, err := models.ParseArtifact(*signed.AssinaturaCliente)
	require.NoError(t, err)
	assert.True(t, art.IsLogo(), "stored sentinel parses back to the logo variant")
}

func TestListByOwner(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Create(context.Background(), "a", "Primeiro", "x")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "a", "Segundo", "y")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "b", "Alheio", "z")
	require.NoError(t, err)

	cs, err := svc.ListByOwner(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, cs, 2)
}

func TestCountByStatus(t *testing.T) {
	svc, _ := testService(t)
	c, err := svc.Create(context.Background(), "a", "Um", "x")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "a", "Dois", "y")
	require.NoError(t, err)
	_, err = svc.Sign(context.Background(), c.ID, models.BitmapArtifact("data:image/png;base64,eA=="))
	require.NoError(t, err)

	drafts, err := svc.CountByStatus(context.Background(), "a", models.DocumentDraft)
	require.NoError(t, err)
	assert.EqualValues(t, 1, drafts)
	signed, err := svc.CountByStatus(context.Background(), "a", models.DocumentSigned)
	require.NoError(t, err)
	assert.EqualValues(t, 1, signed)
}

func TestQuotes(t *testing.T) {
	svc, _ := testService(t)
	q, err := svc.CreateQuote(context.Background(), "a", QuoteInput{
		NomeCliente:    "Maria",
		ProdutoServico: "Instalação elétrica",
		Detalhes:       "Apartamento 2 quartos",
		Valor:          1500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuoteSent, q.Status)

	qs, err := svc.ListQuotes(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Maria", qs[0].NomeCliente)

	n, err := svc.CountSentQuotes(context.Background(), "a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
