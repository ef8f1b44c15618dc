package chat

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/models"
)

type stubSender struct {
	calls  int
	last   models.ChatRequest
	apiKey string
	reply  string
	err    error
}

func (s *stubSender) Send(_ context.Context, req models.ChatRequest, apiKey string) (string, error) {
	s.calls++
	s.last = req
	s.apiKey = apiKey
	return s.reply, s.err
}

func TestSendBlankIssuesNoRequest(t *testing.T) {
	sender := &stubSender{reply: "hi"}
	w := NewWidget(sender, "gpt-4o-mini", zap.NewNop())

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := w.Send(context.Background(), "s1", text, ""); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("Send(%q) err = %v, want ErrEmptyMessage", text, err)
		}
	}
	if sender.calls != 0 {
		t.Fatalf("blank input must not reach the sender, got %d calls", sender.calls)
	}
	if entries := w.Entries("s1"); len(entries) != 0 {
		t.Fatalf("transcript mutated: %+v", entries)
	}
}

func TestSendAppendsUserThenAssistant(t *testing.T) {
	sender := &stubSender{reply: "Quantify your achievements."}
	w := NewWidget(sender, "gpt-4o-mini", zap.NewNop())

	if err := w.Send(context.Background(), "s1", "  How do I improve my resume? ", "sk-user"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	entries := w.Entries("s1")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Role != models.RoleUser || entries[0].Content != "How do I improve my resume?" || entries[0].State != StateResolved {
		t.Fatalf("unexpected user entry: %+v", entries[0])
	}
	if entries[1].Role != models.RoleAssistant || entries[1].Content != "Quantify your achievements." {
		t.Fatalf("unexpected assistant entry: %+v", entries[1])
	}

	if sender.apiKey != "sk-user" || sender.last.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected request: key=%q model=%q", sender.apiKey, sender.last.Model)
	}
	msgs := sender.last.Messages
	if len(msgs) != 2 || msgs[0].Role != models.RoleSystem || msgs[0].Content != Preamble {
		t.Fatalf("preamble missing: %+v", msgs)
	}
	if msgs[1].Content != "How do I improve my resume?" {
		t.Fatalf("history missing user message: %+v", msgs)
	}
}

func TestSendForwardsFullHistory(t *testing.T) {
	sender := &stubSender{reply: "ok"}
	w := NewWidget(sender, "m", zap.NewNop())
	ctx := context.Background()

	_ = w.Send(ctx, "s1", "first", "")
	_ = w.Send(ctx, "s1", "second", "")

	msgs := sender.last.Messages
	want := []string{Preamble, "first", "ok", "second"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %+v", len(want), msgs)
	}
	for i, content := range want {
		if msgs[i].Content != content {
			t.Fatalf("message %d = %q, want %q", i, msgs[i].Content, content)
		}
	}
}

func TestSendFailureMarksMessage(t *testing.T) {
	sender := &stubSender{err: errors.New("api status 500")}
	w := NewWidget(sender, "m", zap.NewNop())

	if err := w.Send(context.Background(), "s1", "hello", ""); err == nil {
		t.Fatalf("expected error")
	}

	entries := w.Entries("s1")
	if len(entries) != 1 || entries[0].State != StateFailed {
		t.Fatalf("expected one failed entry, got %+v", entries)
	}
	if w.Pending("s1") {
		t.Fatalf("failed send must not stay pending")
	}
}

func TestSendEmptyReplyUsesFallback(t *testing.T) {
	w := NewWidget(&stubSender{reply: "  "}, "m", zap.NewNop())
	_ = w.Send(context.Background(), "s1", "hello", "")

	entries := w.Entries("s1")
	if len(entries) != 2 || entries[1].Content != FallbackReply {
		t.Fatalf("expected fallback reply, got %+v", entries)
	}
}

func TestCloseDropsTranscript(t *testing.T) {
	w := NewWidget(&stubSender{reply: "ok"}, "m", zap.NewNop())
	_ = w.Send(context.Background(), "s1", "hello", "")
	_ = w.Send(context.Background(), "s2", "other", "")

	w.Close("s1")
	if len(w.Entries("s1")) != 0 {
		t.Fatalf("transcript survived close")
	}
	if len(w.Entries("s2")) != 2 {
		t.Fatalf("other session affected by close")
	}
}

func TestTranscriptRejectsSecondPending(t *testing.T) {
	tr := NewTranscript()
	first, _, err := tr.Begin("one")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, _, err := tr.Begin("two"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if !tr.Pending() {
		t.Fatalf("expected pending")
	}

	tr.Resolve(first.ID, "reply")
	if _, _, err := tr.Begin("two"); err != nil {
		t.Fatalf("Begin after resolve: %v", err)
	}
}

func TestTranscriptResolveUnknownID(t *testing.T) {
	tr := NewTranscript()
	tr.Resolve("missing", "reply")
	if len(tr.Entries()) != 0 {
		t.Fatalf("resolving an unknown id must not append")
	}
}
