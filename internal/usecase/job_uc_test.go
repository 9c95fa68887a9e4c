// File: internal/usecase/job_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/usecase"
)

func newJobFixture(t *testing.T) (usecase.JobUseCase, string) {
	t.Helper()
	clients := NewMockClientRepo()
	c, err := model.NewClient("client-1", "user-1", "Acme", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := clients.Save(context.Background(), nil, c); err != nil {
		t.Fatal(err)
	}
	return usecase.NewJobUseCase(NewMockJobRepo(), clients, newTestLogger()), c.ID
}

func TestJobCreate(t *testing.T) {
	ctx := context.Background()
	uc, clientID := newJobFixture(t)

	t.Run("unscheduled starts quoted", func(t *testing.T) {
		j, err := uc.Create(ctx, "user-1", clientID, "Fix roof", "", 300_000, nil)
		if err != nil {
			t.Fatal(err)
		}
		if j.Status != model.JobStatusQuoted {
			t.Errorf("status = %q, want quoted", j.Status)
		}
	})

	t.Run("scheduled date sets status", func(t *testing.T) {
		when := time.Now().UTC().AddDate(0, 0, 7)
		j, err := uc.Create(ctx, "user-1", clientID, "Install fence", "", 500_000, &when)
		if err != nil {
			t.Fatal(err)
		}
		if j.Status != model.JobStatusScheduled {
			t.Errorf("status = %q, want scheduled", j.Status)
		}
	})

	t.Run("client must belong to the account", func(t *testing.T) {
		if _, err := uc.Create(ctx, "user-2", clientID, "Sneaky", "", 100, nil); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("cross-account create err = %v, want ErrNotFound", err)
		}
	})
}

func TestJobSetStatus(t *testing.T) {
	ctx := context.Background()
	uc, clientID := newJobFixture(t)

	j, err := uc.Create(ctx, "user-1", clientID, "Paint office", "", 400_000, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, status := range []model.JobStatus{model.JobStatusInProgress, model.JobStatusDone} {
		got, err := uc.SetStatus(ctx, "user-1", j.ID, status)
		if err != nil {
			t.Fatalf("SetStatus(%s): %v", status, err)
		}
		if got.Status != status {
			t.Errorf("status = %q, want %q", got.Status, status)
		}
	}

	if _, err := uc.SetStatus(ctx, "user-1", j.ID, "shipped"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("bogus status err = %v, want ErrInvalidArgument", err)
	}
	if _, err := uc.SetStatus(ctx, "user-2", j.ID, model.JobStatusDone); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-account err = %v, want ErrNotFound", err)
	}
}
