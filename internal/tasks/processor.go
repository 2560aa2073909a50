package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lendflow/internal/letters"
	"lendflow/internal/models"
	"lendflow/internal/service"
	"lendflow/internal/storage"
)

const sweepBatchSize = 200

type SanctionStore interface {
	GetSanction(ctx context.Context, id string) (models.Sanction, error)
	SetLetterKey(ctx context.Context, id string, letterKey string) error
}

type Processor struct {
	documents *service.DocumentService
	sanctions SanctionStore
	users     service.UserStore
	blobs     *storage.ObjectStore
	logger    zerolog.Logger
}

type TaskPayload struct {
	Type       string `json:"type"`
	SanctionID string `json:"sanctionId"`
}

func NewProcessor(documents *service.DocumentService, sanctions SanctionStore, users service.UserStore, blobs *storage.ObjectStore, logger zerolog.Logger) *Processor {
	return &Processor{
		documents: documents,
		sanctions: sanctions,
		users:     users,
		blobs:     blobs,
		logger:    logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "document_sweep":
		return p.handleDocumentSweep(ctx)
	case "sanction_letter":
		return p.handleSanctionLetter(ctx, payload)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (p *Processor) handleDocumentSweep(ctx context.Context) error {
	confirmed, orphaned, err := p.documents.Sweep(ctx, sweepBatchSize)
	if err != nil {
		return fmt.Errorf("document sweep: %w", err)
	}
	p.logger.Info().
		Int("confirmed", confirmed).
		Int("orphaned", orphaned).
		Msg("document sweep complete")
	return nil
}

func (p *Processor) handleSanctionLetter(ctx context.Context, payload TaskPayload) error {
	if payload.SanctionID == "" {
		return fmt.Errorf("sanction_letter task missing sanctionId")
	}

	sanction, err := p.sanctions.GetSanction(ctx, payload.SanctionID)
	if err != nil {
		return fmt.Errorf("load sanction: %w", err)
	}
	user, err := p.users.GetByID(ctx, sanction.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	pdf := letters.Render(sanction, user)
	key := letters.ObjectKey(sanction.ID)

	if err := p.blobs.Put(ctx, p.blobs.LettersBucket(), key, pdf, "application/pdf"); err != nil {
		return fmt.Errorf("store letter: %w", err)
	}
	if err := p.sanctions.SetLetterKey(ctx, sanction.ID, key); err != nil {
		return fmt.Errorf("record letter key: %w", err)
	}

	p.logger.Info().Str("sanction_id", sanction.ID).Str("letter_key", key).Msg("sanction letter generated")
	return nil
}
