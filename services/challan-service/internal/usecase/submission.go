package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/config"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/model"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/webhook"
)

// SubmissionUsecase forwards student records to the automation webhooks.
type SubmissionUsecase interface {
	// ForwardManual stamps a single record with a new challan number and forwards it.
	ForwardManual(ctx context.Context, submission model.StudentSubmission) (*ManualResult, error)

	// ForwardCSV decodes an uploaded CSV file and forwards all of its rows.
	ForwardCSV(ctx context.Context, filename string, content io.Reader) (*CSVResult, error)
}

// WebhookPoster sends a JSON payload to a webhook URL.
type WebhookPoster interface {
	PostJSON(ctx context.Context, url string, payload any) (*webhook.Response, error)
}

// ManualResult is the outcome of ForwardManual.
type ManualResult struct {
	ChallanNo        string
	UpstreamResponse string
}

// CSVResult is the outcome of ForwardCSV.
type CSVResult struct {
	Rows             int
	UpstreamResponse string
}

var (
	ErrUnsupportedFormat   = errors.New("only CSV files are allowed")
	ErrMalformedInput      = errors.New("malformed input")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamRejected    = errors.New("upstream rejected the request")
)

const (
	challanNoLength   = 8
	challanNoAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type submissionUsecase struct {
	poster     WebhookPoster
	webhookCfg config.WebhookConfig
	logger     *zerolog.Logger
	challanNo  func() string
}

func NewSubmissionUsecase(
	poster WebhookPoster,
	webhookCfg config.WebhookConfig,
	logger *zerolog.Logger,
) SubmissionUsecase {
	return &submissionUsecase{
		poster:     poster,
		webhookCfg: webhookCfg,
		logger:     logger,
		challanNo:  generateChallanNo,
	}
}

type webhookPayload struct {
	Data any `json:"data"`
}

func (u *submissionUsecase) ForwardManual(
	ctx context.Context,
	submission model.StudentSubmission,
) (*ManualResult, error) {
	record := model.ChallanRecord{
		ChallanNo:         u.challanNo(),
		StudentSubmission: submission,
	}

	u.logger.Debug().
		Str("challan_no", record.ChallanNo).
		Str("roll_number", record.RollNumber).
		Msg("forwarding manual entry")

	resp, err := u.poster.PostJSON(ctx, u.webhookCfg.ManualURL, webhookPayload{Data: record})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstreamRejected, resp.StatusCode, resp.Body)
	}

	return &ManualResult{
		ChallanNo:        record.ChallanNo,
		UpstreamResponse: resp.Body,
	}, nil
}

func (u *submissionUsecase) ForwardCSV(
	ctx context.Context,
	filename string,
	content io.Reader,
) (*CSVResult, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return nil, ErrUnsupportedFormat
	}

	rows, err := decodeCSVRows(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	u.logger.Debug().Str("filename", filename).Int("rows", len(rows)).Msg("forwarding csv upload")

	// The CSV workflow answers with free-form text; its status is passed through unchecked.
	resp, err := u.poster.PostJSON(ctx, u.webhookCfg.CSVURL, webhookPayload{Data: rows})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return &CSVResult{
		Rows:             len(rows),
		UpstreamResponse: resp.Body,
	}, nil
}

// generateChallanNo returns a random tracking label. It is not unique and not secret.
func generateChallanNo() string {
	b := make([]byte, challanNoLength)
	for i := range b {
		b[i] = challanNoAlphabet[rand.IntN(len(challanNoAlphabet))]
	}
	return string(b)
}
