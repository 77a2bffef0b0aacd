package filter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/morkato/morkato-bot/api"
	"github.com/morkato/morkato-bot/morkato"
)

func loadGuild(t *testing.T) *morkato.Guild {
	t.Helper()

	mux := http.NewServeMux()
	reply := func(body any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(body)
		}
	}
	mux.HandleFunc("GET /guilds/1", reply(map[string]any{"id": "1"}))
	mux.HandleFunc("GET /abilities/1", reply([]any{}))
	mux.HandleFunc("GET /families/1", reply([]any{}))
	mux.HandleFunc("GET /arts/1", reply([]map[string]any{
		{
			"id": "10", "guild_id": "1", "name": "Water", "type": "RESPIRATION", "breath": 50,
			"attacks": []map[string]any{
				{"id": "100", "guild_id": "1", "art_id": "10", "name": "First Form", "damage": 80},
				{"id": "101", "guild_id": "1", "art_id": "10", "name": "Tenth Form", "damage": 400, "flags": 32, "description": "A rising dragon"},
			},
		},
		{
			"id": "11", "guild_id": "1", "name": "Blood Demon", "type": "KEKKIJUTSU", "blood": 120,
			"attacks": []map[string]any{
				{"id": "102", "guild_id": "1", "art_id": "11", "name": "Crimson Blade", "damage": 250, "flags": 33},
			},
		},
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Hosts{BaseURL: server.URL, CDNURL: server.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	client.StaticLogin()
	state := morkato.NewState(client, zerolog.Nop())
	t.Cleanup(state.Close)

	guild, err := state.FetchGuild(context.Background(), 1)
	if err != nil {
		t.Fatalf("failed to load guild: %v", err)
	}
	return guild
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasFlag("AREA")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasFlag("unclosed`,
			wantErr:    true,
		},
		{
			name:       "helper misuse",
			expression: `hasFlag(1, 2)`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Damage >= 100 and (hasFlag("AREA") or hasText(Art, "blood"))`,
		},
	}

	compiler := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Expression() != strings.TrimSpace(tt.expression) {
				t.Errorf("expression = %q", f.Expression())
			}
		})
	}
}

func TestSelectAttacks(t *testing.T) {
	guild := loadGuild(t)
	compiler := NewCompiler()

	tests := []struct {
		name       string
		expression string
		expected   []api.Snowflake
	}{
		{name: "damage threshold", expression: `Damage >= 250`, expected: []api.Snowflake{101, 102}},
		{name: "flag", expression: `hasFlag("area")`, expected: []api.Snowflake{101, 102}},
		{name: "flag combination", expression: `hasFlag("AREA") and hasFlag("DEFENSIVE")`, expected: []api.Snowflake{102}},
		{name: "unknown flag", expression: `hasFlag("FLYING")`},
		{name: "art name", expression: `Art == "Water"`, expected: []api.Snowflake{100, 101}},
		{name: "art type", expression: `ArtType == "KEKKIJUTSU"`, expected: []api.Snowflake{102}},
		{name: "description helper", expression: `hasText(Description, "DRAGON")`, expected: []api.Snowflake{101}},
		{name: "name prefix", expression: `hasPrefix(Name, "first")`, expected: []api.Snowflake{100}},
		{name: "name suffix", expression: `hasSuffix(Name, "BLADE")`, expected: []api.Snowflake{102}},
		{name: "infix contains", expression: `Name contains "Form"`, expected: []api.Snowflake{100, 101}},
		{name: "infix contains is case-sensitive", expression: `Name contains "form"`},
		{name: "infix startsWith", expression: `Name startsWith "Tenth"`, expected: []api.Snowflake{101}},
		{name: "infix endsWith", expression: `Art endsWith "Demon"`, expected: []api.Snowflake{102}},
		{name: "never updated", expression: `Updated.IsZero()`, expected: []api.Snowflake{100, 101, 102}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile: %v", err)
			}
			attacks, err := f.SelectAttacks(guild.Attacks())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := make([]api.Snowflake, 0, len(attacks))
			for _, a := range attacks {
				got = append(got, a.ID())
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("got %v, want %v", got, tt.expected)
					break
				}
			}
		})
	}
}

func TestSelectArts(t *testing.T) {
	guild := loadGuild(t)
	compiler := NewCompiler()

	tests := []struct {
		expression string
		expected   []string
	}{
		{expression: `AttackCount >= 2`, expected: []string{"Water"}},
		{expression: `hasAttack("crimson blade")`, expected: []string{"Blood Demon"}},
		{expression: `Type == "RESPIRATION" and Breath > 10`, expected: []string{"Water"}},
		{expression: `Blood > 1000`},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile: %v", err)
			}
			arts, err := f.SelectArts(guild.Arts())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []string
			for _, a := range arts {
				got = append(got, a.Name())
			}
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEvaluationError(t *testing.T) {
	guild := loadGuild(t)

	f, err := NewCompiler().Compile(`int(Name) > 0`)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}
	_, err = f.SelectAttacks(guild.Attacks())
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %v", err)
	}
	if evalErr.Subject != "attack First Form" {
		t.Errorf("subject = %q", evalErr.Subject)
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewCompiler(WithCache(2))

	first, err := compiler.Compile(`Damage > 1`)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := compiler.Compile(`  Damage > 1  `)
	if first != again {
		t.Errorf("expected cached filter to be reused")
	}

	compiler.Compile(`Damage > 2`)
	compiler.Compile(`Damage > 3`)
	if compiler.Size() != 2 {
		t.Errorf("size = %d, want 2", compiler.Size())
	}
	evicted, _ := compiler.Compile(`Damage > 1`)
	if evicted == first {
		t.Errorf("expected least recently used filter to be evicted")
	}

	compiler.Clear()
	if compiler.Size() != 0 {
		t.Errorf("size after clear = %d", compiler.Size())
	}
	if NewCompiler().Size() != 0 {
		t.Errorf("uncached compiler reports a size")
	}
}

func TestCustomFunctions(t *testing.T) {
	guild := loadGuild(t)
	compiler := NewCompiler(WithCustomFunctions(map[string]any{
		"heavy": func(damage int64) bool { return damage > 300 },
	}))

	f, err := compiler.Compile(`heavy(Damage)`)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}
	ok, err := f.MatchAttack(guild.GetAttack(101))
	if err != nil || !ok {
		t.Errorf("MatchAttack = %v, %v", ok, err)
	}
}
