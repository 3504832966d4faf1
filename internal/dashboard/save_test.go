package dashboard

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/worker"
)

// countingAPI records which endpoint each save reached. updateGate, when set,
// holds UpdateUser until it is closed.
type countingAPI struct {
	registers  atomic.Int64
	updates    atomic.Int64
	wrongID    atomic.Int64
	updateGate chan struct{}
}

func (a *countingAPI) Register(ctx context.Context, c models.Credentials) (models.MessageResponse, error) {
	a.registers.Add(1)
	return models.MessageResponse{Message: "created"}, nil
}

func (a *countingAPI) UpdateUser(ctx context.Context, id string, c models.Credentials) (models.MessageResponse, error) {
	if a.updateGate != nil {
		<-a.updateGate
	}
	a.updates.Add(1)
	if id != "victim" || c.Username != "renamed" {
		a.wrongID.Add(1)
	}
	return models.MessageResponse{Message: "updated"}, nil
}

func (a *countingAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	return []models.User{{ID: "victim", Username: "victim"}}, nil
}

func (a *countingAPI) DeleteUser(ctx context.Context, id string) (models.MessageResponse, error) {
	return models.MessageResponse{}, nil
}

func (a *countingAPI) ListLogs(ctx context.Context) ([]models.AuditLog, error) { return nil, nil }

func (a *countingAPI) DetectChanges(ctx context.Context) (models.ChangeReport, error) {
	return models.ChangeReport{}, nil
}

func newCountingController(t *testing.T, api *countingAPI) *Controller {
	t.Helper()
	pool := worker.NewPool(4)
	t.Cleanup(pool.Stop)
	return NewController(api, pool, 5, nil)
}

func TestConcurrentCreateAndUpdateKeepEndpoints(t *testing.T) {
	api := &countingAPI{}
	c := newCountingController(t, api)
	ctx := context.Background()

	const pairs = 200
	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.CreateUser(ctx, models.Credentials{Username: "fresh", Password: "secret1"})
		}()
		go func() {
			defer wg.Done()
			c.UpdateUser(ctx, "victim", models.Credentials{Username: "renamed", Password: "secret1"})
		}()
	}
	wg.Wait()

	if r, u := api.registers.Load(), api.updates.Load(); r != pairs || u != pairs {
		t.Fatalf("register calls = %d, update calls = %d, want %d each", r, u, pairs)
	}
	if n := api.wrongID.Load(); n != 0 {
		t.Fatalf("%d updates carried the wrong id or payload", n)
	}
}

func TestUpdateWithEmptyIDIsRejected(t *testing.T) {
	api := &countingAPI{}
	c := newCountingController(t, api)

	res := c.UpdateUser(context.Background(), "  ", models.Credentials{Username: "renamed", Password: "secret1"})
	if res.OK || len(res.Notices) != 1 || res.Notices[0].Message != "user id required" {
		t.Fatalf("result = %+v", res)
	}
	if api.registers.Load() != 0 || api.updates.Load() != 0 {
		t.Fatal("empty id must not reach the backend")
	}
}

func TestSaveKeepsDialogOpenedMeanwhile(t *testing.T) {
	api := &countingAPI{updateGate: make(chan struct{})}
	c := newCountingController(t, api)
	ctx := context.Background()

	done := make(chan Result)
	go func() {
		done <- c.UpdateUser(ctx, "victim", models.Credentials{Username: "renamed", Password: "secret1"})
	}()

	// wait until the update owns the dialog, then replace it
	for c.Snapshot().Dialog.EditingID != "victim" {
		runtime.Gosched()
	}
	c.OpenDialog(DialogLogs)
	close(api.updateGate)

	if res := <-done; !res.OK {
		t.Fatalf("update failed: %+v", res)
	}
	if k := c.Snapshot().Dialog.Kind; k != DialogLogs {
		t.Fatalf("dialog = %s, want the one opened during the save", k)
	}
}

func TestSaveClosesItsOwnDialog(t *testing.T) {
	api := &countingAPI{}
	c := newCountingController(t, api)

	if res := c.UpdateUser(context.Background(), "victim", models.Credentials{Username: "renamed", Password: "secret1"}); !res.OK {
		t.Fatalf("update failed: %+v", res)
	}
	if snap := c.Snapshot(); snap.Dialog.Kind != DialogNone || snap.Form.Username != "" {
		t.Fatalf("dialog not closed: %+v", snap)
	}
}
