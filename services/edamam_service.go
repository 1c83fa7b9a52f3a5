package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jkong61/health-backend-app/config"
)

// EdamamService talks to the Edamam food database API. Both calls are
// read-only and idempotent, so they are safe to retry from above.
type EdamamService struct {
	baseURL                 string
	foodAppID, foodAppKey   string
	nutriAppID, nutriAppKey string
	gramMeasureURI          string
	client                  *http.Client
}

// ParsedFood is the first candidate returned by the parser endpoint.
type ParsedFood struct {
	FoodID string
	Label  string
}

func NewEdamamService(cfg config.EdamamConfig) *EdamamService {
	return &EdamamService{
		baseURL:        cfg.BaseURL,
		foodAppID:      cfg.FoodAppID,
		foodAppKey:     cfg.FoodAppKey,
		nutriAppID:     cfg.NutritionAppID,
		nutriAppKey:    cfg.NutritionAppKey,
		gramMeasureURI: cfg.GramMeasureURI,
		client:         &http.Client{Timeout: 10 * time.Second},
	}
}

type foodParserResponse struct {
	Parsed []struct {
		Food struct {
			FoodID string `json:"foodId"`
			Label  string `json:"label"`
		} `json:"food"`
	} `json:"parsed"`
}

// ParseFood submits free text to the parser endpoint and returns the first
// candidate. Any shape mismatch in the response body is treated as "not
// found", not as a transport error.
func (s *EdamamService) ParseFood(ctx context.Context, text string) (ParsedFood, error) {
	if text == "" {
		return ParsedFood{}, fmt.Errorf("%w: parsed text not provided", ErrNutritionDataRequired)
	}

	params := url.Values{}
	params.Set("app_id", s.foodAppID)
	params.Set("app_key", s.foodAppKey)
	params.Set("ingr", text)
	params.Set("category", "generic-foods")

	body, err := s.get(ctx, s.baseURL+"/parser?"+params.Encode())
	if err != nil {
		return ParsedFood{}, err
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return ParsedFood{}, fmt.Errorf("%w: unparseable parser response", ErrFoodItemDoesNotExist)
	}
	if len(pr.Parsed) == 0 || pr.Parsed[0].Food.FoodID == "" {
		return ParsedFood{}, fmt.Errorf("%w: no candidate for %q", ErrFoodItemDoesNotExist, text)
	}

	return ParsedFood{
		FoodID: pr.Parsed[0].Food.FoodID,
		Label:  pr.Parsed[0].Food.Label,
	}, nil
}

type nutrientsResponse struct {
	TotalNutrients map[string]struct {
		Quantity float64 `json:"quantity"`
	} `json:"totalNutrients"`
}

// FetchNutrients asks the nutrients endpoint for one gram of the given food
// so the returned quantities are already normalized per gram.
func (s *EdamamService) FetchNutrients(ctx context.Context, foodID string) (map[string]float64, error) {
	if foodID == "" {
		return nil, fmt.Errorf("%w: food ID not provided", ErrNutritionDataRequired)
	}

	payload := map[string]any{
		"ingredients": []map[string]any{{
			"quantity":   1,
			"measureURI": s.gramMeasureURI,
			"foodId":     foodID,
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal nutrients payload: %w", err)
	}

	u := fmt.Sprintf("%s/nutrients?app_id=%s&app_key=%s", s.baseURL, s.nutriAppID, s.nutriAppKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build nutrients request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var nr nutrientsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("%w: unparseable nutrients response", ErrFoodItemDoesNotExist)
	}
	if nr.TotalNutrients == nil {
		return nil, fmt.Errorf("%w: response missing totalNutrients", ErrFoodItemDoesNotExist)
	}

	quantities := make(map[string]float64, len(nr.TotalNutrients))
	for code, v := range nr.TotalNutrients {
		quantities[code] = v.Quantity
	}
	return quantities, nil
}

func (s *EdamamService) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build parser request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return s.do(req)
}

// do executes the request and classifies transport and non-2xx responses as
// ErrServiceUnavailable, timeouts included.
func (s *EdamamService) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	return body, nil
}
