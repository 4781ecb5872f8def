package detect

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dquist/master-verifier/internal/assess"
)

// #endregion

// #region remote-verifier

// RemoteVerifier calls a hosted verifier service (a Master-RM style
// substantive/superficial classifier) over HTTP JSON.
type RemoteVerifier struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteVerifier creates a client for the given endpoint. apiKey may be
// empty for unauthenticated deployments.
func NewRemoteVerifier(endpoint, apiKey string, timeout time.Duration) *RemoteVerifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteVerifier{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// #endregion

// #region wire-types

type verifyRequest struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

type verifyResponse struct {
	IsSubstantive bool    `json:"is_substantive"`
	Confidence    float32 `json:"confidence"`
	Explanation   string  `json:"explanation"`
}

// #endregion

// #region verify

// Verify submits (query, response) for classification. Any transport or
// decode failure is returned as an error; the detector handles fallback.
func (v *RemoteVerifier) Verify(ctx context.Context, query, response string) (assess.VerificationResult, error) {
	body, err := json.Marshal(verifyRequest{Question: query, Response: response})
	if err != nil {
		return assess.VerificationResult{}, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return assess.VerificationResult{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return assess.VerificationResult{}, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return assess.VerificationResult{}, fmt.Errorf("verify request: status %d: %s", resp.StatusCode, data)
	}

	var wire verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return assess.VerificationResult{}, fmt.Errorf("decode verify response: %w", err)
	}

	confidence := wire.Confidence
	if confidence < 0 || confidence > 1 {
		// Out-of-range scores are a defect signal; clamp rather than fail.
		confidence = clamp01(confidence)
	}

	result := assess.VerificationResult{
		IsSubstantive: wire.IsSubstantive,
		Confidence:    confidence,
		Indicators:    map[string]float32{},
		Method:        assess.MethodExternal,
	}
	if wire.Explanation != "" {
		result.Reasons = []string{wire.Explanation}
	}
	return result, nil
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// #endregion
