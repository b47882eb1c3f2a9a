package services

import (
	"context"
	"sync"
	"testing"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
)

func newConversationFixture() (*fakeConversationRepo, *fakeUserRepo, ConversationService) {
	convos := newFakeConversationRepo()
	users := newFakeUserRepo()
	users.users[candidateID] = &models.User{ID: candidateID, Username: "alice", IsActive: true}
	users.users[recruiterID] = &models.User{ID: recruiterID, Username: "bob", IsActive: true}
	return convos, users, NewConversationService(convos, users)
}

func TestGetOrCreateReturnsSameConversationForBothOrders(t *testing.T) {
	_, _, svc := newConversationFixture()
	ctx := context.Background()

	first, created, err := svc.GetOrCreate(ctx, candidateID, recruiterID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !created {
		t.Fatal("first call reported created=false")
	}

	second, created, err := svc.GetOrCreate(ctx, recruiterID, candidateID)
	if err != nil {
		t.Fatalf("reversed call: %v", err)
	}
	if created {
		t.Fatal("reversed call reported created=true")
	}
	if second.ID != first.ID {
		t.Fatalf("reversed order produced a different conversation: %s vs %s", second.ID, first.ID)
	}
}

func TestGetOrCreateConcurrentCallsCreateOneConversation(t *testing.T) {
	convos, _, svc := newConversationFixture()

	const n = 16
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := candidateID, recruiterID
			if i%2 == 1 {
				a, b = b, a
			}
			conv, _, err := svc.GetOrCreate(context.Background(), a, b)
			if err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			ids[i] = conv.ID
		}(i)
	}
	wg.Wait()

	convos.mu.Lock()
	rows := len(convos.convos)
	convos.mu.Unlock()
	if rows != 1 {
		t.Fatalf("conversation rows = %d, want 1", rows)
	}
	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("caller %d got conversation %s, caller 0 got %s", i, ids[i], ids[0])
		}
	}
}

func TestGetOrCreateRejectsSelfConversation(t *testing.T) {
	_, _, svc := newConversationFixture()

	_, _, err := svc.GetOrCreate(context.Background(), candidateID, candidateID)
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("self-chat error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestGetOrCreateRejectsUnknownUser(t *testing.T) {
	_, _, svc := newConversationFixture()

	_, _, err := svc.GetOrCreate(context.Background(), candidateID, "no-such-user")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("unknown-peer error = %v, want NOT_FOUND", err)
	}
}

func TestHistoryRequiresParticipation(t *testing.T) {
	_, users, svc := newConversationFixture()
	users.users["outsider"] = &models.User{ID: "outsider", Username: "eve", IsActive: true}
	ctx := context.Background()

	conv, _, err := svc.GetOrCreate(ctx, candidateID, recruiterID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if _, err := svc.AppendMessage(ctx, conv.ID, candidateID, "hello"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	_, err = svc.History(ctx, "outsider", conv.ID, 50)
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("outsider history error = %v, want FORBIDDEN", err)
	}

	rows, err := svc.History(ctx, recruiterID, conv.ID, 50)
	if err != nil {
		t.Fatalf("participant history: %v", err)
	}
	if len(rows) != 1 || rows[0].Content != "hello" {
		t.Fatalf("history = %+v", rows)
	}
}

func TestAppendMessageRejectsNonParticipant(t *testing.T) {
	_, users, svc := newConversationFixture()
	users.users["outsider"] = &models.User{ID: "outsider", Username: "eve", IsActive: true}
	ctx := context.Background()

	conv, _, err := svc.GetOrCreate(ctx, candidateID, recruiterID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	_, err = svc.AppendMessage(ctx, conv.ID, "outsider", "let me in")
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("outsider append error = %v, want FORBIDDEN", err)
	}
}
