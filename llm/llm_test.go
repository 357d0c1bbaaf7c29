package llm

import (
	"context"
	"testing"
)

func TestClientFuncForwardsRequest(t *testing.T) {
	var got Request
	c := ClientFunc(func(ctx context.Context, req Request) (Result, error) {
		got = req
		return Result{Text: "ok"}, nil
	})
	res, err := c.Chat(context.Background(), Request{Model: "m", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "ok" {
		t.Fatalf("Chat() text = %q, want ok", res.Text)
	}
	if got.Model != "m" || len(got.Messages) != 1 || got.Messages[0].Role != RoleUser {
		t.Fatalf("forwarded request = %+v", got)
	}
}
