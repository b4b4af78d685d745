package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/okralabs/graphive/pkg/ai"
	"github.com/okralabs/graphive/pkg/ai/mock"
)

type fakeQuerier struct {
	schema   string
	rows     []map[string]any
	execErr  error
	executed string
}

func (f *fakeQuerier) Schema(ctx context.Context) (string, error) {
	return f.schema, nil
}

func (f *fakeQuerier) Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	f.executed = query
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.rows, nil
}

func TestAnswer(t *testing.T) {
	t.Run("translates, executes and synthesizes", func(t *testing.T) {
		querier := &fakeQuerier{
			schema: "Node properties:\nPERSON {id: STRING}\n",
			rows:   []map[string]any{{"name": "MARIE CURIE"}},
		}

		chat := mock.NewChatClient()
		chat.GenerateCompletionFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			if strings.Contains(prompt, "Generate a Cypher statement") {
				return "```cypher\nMATCH (p:PERSON) RETURN p.id AS name\n```", nil
			}
			return "Marie Curie discovered radium.", nil
		}

		a := NewAnswerer(NewAnswererParams{Client: chat, Store: querier})
		result, err := a.Answer(context.Background(), "Who discovered radium?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Query != "MATCH (p:PERSON) RETURN p.id AS name" {
			t.Fatalf("code fence not stripped: %q", result.Query)
		}
		if querier.executed != result.Query {
			t.Fatalf("executed query differs: %q", querier.executed)
		}
		if result.Answer != "Marie Curie discovered radium." {
			t.Fatalf("unexpected answer: %q", result.Answer)
		}
		if len(result.Rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(result.Rows))
		}
	})

	t.Run("write queries fail on the first attempt by default", func(t *testing.T) {
		querier := &fakeQuerier{schema: "schema"}

		calls := 0
		chat := mock.NewChatClient()
		chat.GenerateCompletionFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			calls++
			return "MATCH (n) DETACH DELETE n", nil
		}

		a := NewAnswerer(NewAnswererParams{Client: chat, Store: querier})
		_, err := a.Answer(context.Background(), "question")
		if !errors.Is(err, ErrWriteQuery) {
			t.Fatalf("expected ErrWriteQuery, got %v", err)
		}
		if calls != 1 {
			t.Fatalf("expected a single generation attempt, got %d", calls)
		}
		if querier.executed != "" {
			t.Fatalf("write query must never execute, ran %q", querier.executed)
		}
	})

	t.Run("rejects write queries and retries when configured", func(t *testing.T) {
		querier := &fakeQuerier{schema: "schema"}

		calls := 0
		chat := mock.NewChatClient()
		chat.GenerateCompletionFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			if strings.Contains(prompt, "Generate a Cypher statement") {
				calls++
				if calls == 1 {
					return "MATCH (n) DETACH DELETE n", nil
				}
				return "MATCH (n) RETURN n", nil
			}
			return "answer", nil
		}

		a := NewAnswerer(NewAnswererParams{Client: chat, Store: querier, MaxTries: 2})
		result, err := a.Answer(context.Background(), "question")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Query != "MATCH (n) RETURN n" {
			t.Fatalf("unexpected query: %q", result.Query)
		}
		if calls != 2 {
			t.Fatalf("expected 2 generation attempts, got %d", calls)
		}
	})

	t.Run("persistent write queries fail with ErrWriteQuery", func(t *testing.T) {
		querier := &fakeQuerier{schema: "schema"}

		chat := mock.NewChatClient()
		chat.GenerateCompletionFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			return "CREATE (n:Hack) RETURN n", nil
		}

		a := NewAnswerer(NewAnswererParams{Client: chat, Store: querier, MaxTries: 2})
		_, err := a.Answer(context.Background(), "question")
		if !errors.Is(err, ErrWriteQuery) {
			t.Fatalf("expected ErrWriteQuery, got %v", err)
		}
		if querier.executed != "" {
			t.Fatalf("write query must never execute, ran %q", querier.executed)
		}
	})

	t.Run("execution failure returns ExecutionError", func(t *testing.T) {
		querier := &fakeQuerier{
			schema:  "schema",
			execErr: fmt.Errorf("syntax error"),
		}

		chat := mock.NewChatClient()
		chat.GenerateCompletionFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			return "MATCH (n) RETURN n", nil
		}

		a := NewAnswerer(NewAnswererParams{Client: chat, Store: querier})
		result, err := a.Answer(context.Background(), "question")

		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			t.Fatalf("expected ExecutionError, got %v", err)
		}
		if execErr.Query != "MATCH (n) RETURN n" {
			t.Fatalf("unexpected query in error: %q", execErr.Query)
		}
		if result.Query != "MATCH (n) RETURN n" {
			t.Fatalf("result should carry the query for diagnostics: %+v", result)
		}
	})

	t.Run("empty completions are retried when configured", func(t *testing.T) {
		querier := &fakeQuerier{schema: "schema"}

		calls := 0
		chat := mock.NewChatClient()
		chat.GenerateCompletionFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			if strings.Contains(prompt, "Generate a Cypher statement") {
				calls++
				if calls == 1 {
					return "   ", nil
				}
				return "MATCH (n) RETURN n", nil
			}
			return "answer", nil
		}

		a := NewAnswerer(NewAnswererParams{Client: chat, Store: querier, MaxTries: 2})
		if _, err := a.Answer(context.Background(), "question"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Fatalf("expected 2 attempts, got %d", calls)
		}
	})
}
