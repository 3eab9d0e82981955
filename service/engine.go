package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ra7ch/LeetSol/backend/config"
	"github.com/Ra7ch/LeetSol/backend/model"
	"github.com/cenkalti/backoff/v4"
)

// ErrEngineUnavailable marks dispatch failures. Callers see this sentinel;
// the underlying cause is only logged.
var ErrEngineUnavailable = errors.New("audit engine unavailable")

// EngineService dispatches staged contracts to the external audit engine.
// The engine shares the staging volume, so only the file path crosses the
// wire.
type EngineService struct {
	config     *config.EngineConfig
	httpClient *http.Client
}

// auditRequest is the payload sent to the engine
type auditRequest struct {
	ContractPath string `json:"contract_path"`
}

// auditResponse is the expected engine response
type auditResponse struct {
	Report []model.Finding `json:"report"`
}

func NewEngineService(cfg *config.EngineConfig) *EngineService {
	return &EngineService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Audit sends the staged file's path to the engine and returns its findings.
// An empty slice means the engine audited the contract and found nothing;
// it is never collapsed into an error. Transport failures are retried with
// exponential backoff up to the configured attempt budget; anything the
// engine actually answered (bad status, malformed body) is not retried.
func (s *EngineService) Audit(ctx context.Context, contractPath string) ([]model.Finding, error) {
	var findings []model.Finding

	operation := func() error {
		result, err := s.audit(ctx, contractPath)
		if err != nil {
			return err
		}
		findings = result
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.config.MaxRetries)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return findings, nil
}

func (s *EngineService) audit(ctx context.Context, contractPath string) ([]model.Finding, error) {
	jsonData, err := json.Marshal(auditRequest{ContractPath: contractPath})
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.URL+"/audit", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Connection refused, timeout: transient, worth retrying
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("engine returned status %d: %s", resp.StatusCode, string(body)))
	}

	var result auditResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to parse response: %w, body: %s", err, string(body)))
	}

	// Distinguish "clean audit" from "no result"
	if result.Report == nil {
		result.Report = []model.Finding{}
	}
	return result.Report, nil
}
