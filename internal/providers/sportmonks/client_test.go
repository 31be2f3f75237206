package sportmonks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

type stubForm struct {
	stats []players.GameStats
	err   error
}

func (s stubForm) FetchFormStats(ctx context.Context, player players.Player) ([]players.GameStats, error) {
	return s.stats, s.err
}

var odegaard = players.Player{ID: 7, WebName: "Ødegaard", FirstName: "Martin", SecondName: "Ødegaard", PositionName: players.PositionMidfielder}

func upstream(t *testing.T, searchBody string) roundTripperFunc {
	return func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") != "key" {
			t.Errorf("expected api key header, got %q", req.Header.Get("Authorization"))
		}
		switch {
		case strings.HasPrefix(req.URL.Path, "/v3/football/players/search/"):
			return jsonResponse(http.StatusOK, searchBody), nil
		case req.URL.Path == "/v3/football/leagues/8":
			return jsonResponse(http.StatusOK, `{"data": {"seasons": [
				{"id": 1, "name": "2022/2023"}, {"id": 3, "name": "2024/2025"}, {"id": 2, "name": "2023/2024"}
			]}}`), nil
		case req.URL.Path == "/v3/football/players/37":
			if got := req.URL.Query().Get("filters"); got != "playerStatisticSeasons:3,2" {
				t.Errorf("unexpected filters %q", got)
			}
			return jsonResponse(http.StatusOK, `{"data": {
				"id": 37, "display_name": "M. Ødegaard", "name": "Martin Ødegaard", "image_path": "img.png", "height": 178,
				"statistics": [
					{"id": 1, "season_id": 2, "season": {"id": 2, "name": "2023/2024"}, "details": []},
					{"id": 2, "season_id": 3, "season": {"id": 3, "name": "2024/2025"}, "details": [{"id": 9, "type": {"id": 52, "name": "Goals"}, "value": {"total": 8}}]}
				]
			}}`), nil
		}
		t.Errorf("unexpected request %s", req.URL.String())
		return jsonResponse(http.StatusNotFound, ""), nil
	}
}

func TestFetchPlayerDetailMatchesFoldedNames(t *testing.T) {
	search := `{"data": [
		{"id": 36, "common_name": "Someone Else", "name": "Someone Else"},
		{"id": 37, "common_name": "M. Odegaard", "firstname": "Martin", "lastname": "Odegaard", "name": "Martin Odegaard"}
	]}`
	form := stubForm{stats: []players.GameStats{{FixtureID: 1}}}
	client := NewClient(Config{BaseURL: "https://example.test/v3/football", APIKey: "key", HTTPClient: &http.Client{Transport: upstream(t, search)}, Form: form})

	detail, err := client.FetchPlayerDetail(context.Background(), odegaard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != 37 || detail.PositionName != players.PositionMidfielder || detail.Height != 178 {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if len(detail.Statistics) != 2 || detail.Statistics[0].Season.Name != "2024/2025" {
		t.Fatalf("expected statistics newest first, got %+v", detail.Statistics)
	}
	if string(detail.Statistics[0].Details[0].Value) != `{"total": 8}` {
		t.Fatalf("expected raw stat value preserved, got %s", detail.Statistics[0].Details[0].Value)
	}
	if len(detail.FormStats) != 1 {
		t.Fatalf("expected form stats from source")
	}
}

func TestFetchPlayerDetailLevenshteinFallback(t *testing.T) {
	search := `{"data": [{"id": 37, "name": "Martin Odegard"}]}`
	client := NewClient(Config{BaseURL: "https://example.test/v3/football", APIKey: "key", HTTPClient: &http.Client{Transport: upstream(t, search)}, Form: stubForm{err: errors.New("boom")}})

	detail, err := client.FetchPlayerDetail(context.Background(), odegaard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != 37 || detail.FormStats == nil || len(detail.FormStats) != 0 {
		t.Fatalf("expected fuzzy match with empty form, got %+v", detail)
	}
}

func TestFetchPlayerDetailNoMatch(t *testing.T) {
	for name, body := range map[string]string{
		"empty search": `{"data": []}`,
		"no candidate": `{"data": [{"id": 1, "name": "Completely Different"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := NewClient(Config{BaseURL: "https://example.test/v3/football", APIKey: "key", HTTPClient: &http.Client{Transport: upstream(t, body)}})
			_, err := client.FetchPlayerDetail(context.Background(), odegaard)
			if !errors.Is(err, providers.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestFetchPlayerDetailUpstreamError(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, "bad token"), nil
	})
	client := NewClient(Config{APIKey: "key", HTTPClient: &http.Client{Transport: rt}})
	_, err := client.FetchPlayerDetail(context.Background(), odegaard)
	var statusErr *providers.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Ødegaard": "odegaard",
		" Mbappé ": "mbappe",
		"Gvardiol": "gvardiol",
		"Szczęsny": "szczesny",
		"Gündoğan": "gundogan",
	}
	for in, want := range cases {
		if got := fold(in); got != want {
			t.Fatalf("fold(%q) = %q, want %q", in, got, want)
		}
	}
}
