package chat_test

import (
	"context"
	"errors"
	"testing"

	chatmodel "github.com/kisanmitra/backend/internal/model/chat"
	chat "github.com/kisanmitra/backend/internal/service/chat"
)

func TestServiceGetSession(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	if _, err := svc.GetSession(ctx, "missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceTranscriptOrder(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	turns := []chatmodel.Message{
		{SessionID: session.ID, Role: chatmodel.RoleUser, Text: "what about weather"},
		{SessionID: session.ID, Role: chatmodel.RoleBot, Text: "Current temperature: 20°C"},
		{SessionID: session.ID, Role: chatmodel.RoleUser, Text: "thanks"},
	}
	for _, turn := range turns {
		if err := svc.AppendMessage(ctx, turn); err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}

	transcript, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != len(turns) {
		t.Fatalf("transcript length = %d, want %d", len(transcript), len(turns))
	}
	for i, turn := range turns {
		if transcript[i].Text != turn.Text || transcript[i].Role != turn.Role {
			t.Fatalf("turn %d = %+v, want %+v", i, transcript[i], turn)
		}
		if transcript[i].ID == "" {
			t.Fatalf("turn %d missing generated id", i)
		}
	}
}

func TestServiceAppendValidation(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx)

	if err := svc.AppendMessage(ctx, chatmodel.Message{SessionID: "missing", Role: chatmodel.RoleUser, Text: "hi"}); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.AppendMessage(ctx, chatmodel.Message{SessionID: session.ID, Role: chatmodel.RoleBot}); !errors.Is(err, chat.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}
