package business

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

// seedStats creates a link with n joiners spaced one minute apart,
// newest last.
func seedStats(t *testing.T, env *testEnv, account *mockAccount, n int) *entities.InviteLink {
	t.Helper()
	ctx := context.Background()

	link := &entities.InviteLink{
		UserID: 10, ChatID: 1, ChatType: entities.ChatTypeChannel,
		ChatTitle: "Alpha", InviteLink: "https://t.me/+alpha", IsActive: true,
	}
	if err := env.links.Save(ctx, link); err != nil {
		t.Fatalf("seed link failed: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	imps := make([]entities.Importer, 0, n)
	for i := 0; i < n; i++ {
		imps = append(imps, entities.Importer{
			UserID:      int64(100 + i),
			DisplayName: fmt.Sprintf("user%d", i),
			JoinedAt:    base.Add(time.Duration(i) * time.Minute),
		})
	}
	account.importers["alpha"] = imps
	return link
}

func TestOpenStats_FirstPage(t *testing.T) {
	env := newTestEnv()
	account := env.connect()
	link := seedStats(t, env, account, 23)
	ctx := context.Background()

	page, rows, err := env.uc.OpenStats(ctx, 10, link.ID)
	if err != nil {
		t.Fatalf("OpenStats failed: %v", err)
	}
	if page.Total != 23 {
		t.Errorf("Expected total 23, got: %d", page.Total)
	}
	if len(rows) != StatsPageSize {
		t.Errorf("Expected %d rows on first page, got: %d", StatsPageSize, len(rows))
	}
	// Newest first
	if rows[0].JoinedUserID != 122 {
		t.Errorf("Expected newest joiner first, got user %d", rows[0].JoinedUserID)
	}
	if page.HasPrev() {
		t.Error("First page must not have a previous page")
	}
	if !page.HasNext() {
		t.Error("23 rows must spill onto a second page")
	}
}

func TestTurnPage_Walk(t *testing.T) {
	env := newTestEnv()
	account := env.connect()
	link := seedStats(t, env, account, 23)
	ctx := context.Background()
	const messageID = 555

	page, _, err := env.uc.OpenStats(ctx, 10, link.ID)
	if err != nil {
		t.Fatalf("OpenStats failed: %v", err)
	}
	env.uc.SavePage(10, messageID, page)

	// Forward to the second (last) page
	page, rows, err := env.uc.TurnPage(ctx, 10, messageID, 1)
	if err != nil {
		t.Fatalf("TurnPage forward failed: %v", err)
	}
	if page.Offset != StatsPageSize {
		t.Errorf("Expected offset %d, got: %d", StatsPageSize, page.Offset)
	}
	if len(rows) != 23-StatsPageSize {
		t.Errorf("Expected %d rows on last page, got: %d", 23-StatsPageSize, len(rows))
	}
	if page.HasNext() {
		t.Error("Last page must not have a next page")
	}
	if !page.HasPrev() {
		t.Error("Last page must have a previous page")
	}

	// Forward past the end stays on the last page
	page, _, err = env.uc.TurnPage(ctx, 10, messageID, 1)
	if err != nil {
		t.Fatalf("TurnPage past end failed: %v", err)
	}
	if page.Offset != StatsPageSize {
		t.Errorf("Expected offset to stay at %d, got: %d", StatsPageSize, page.Offset)
	}

	// Back to the first page
	page, rows, err = env.uc.TurnPage(ctx, 10, messageID, -1)
	if err != nil {
		t.Fatalf("TurnPage back failed: %v", err)
	}
	if page.Offset != 0 {
		t.Errorf("Expected offset 0, got: %d", page.Offset)
	}
	if len(rows) != StatsPageSize {
		t.Errorf("Expected full first page, got %d rows", len(rows))
	}

	// Back past the start clamps to the first page
	page, _, err = env.uc.TurnPage(ctx, 10, messageID, -1)
	if err != nil {
		t.Fatalf("TurnPage past start failed: %v", err)
	}
	if page.Offset != 0 {
		t.Errorf("Expected offset clamp at 0, got: %d", page.Offset)
	}
}

func TestTurnPage_Expired(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.uc.TurnPage(context.Background(), 10, 555, 1)
	if !errors.Is(err, trackererrors.ErrStatsPageExpired) {
		t.Errorf("Expected ErrStatsPageExpired, got: %v", err)
	}
}

func TestClosePage(t *testing.T) {
	env := newTestEnv()
	account := env.connect()
	link := seedStats(t, env, account, 5)
	ctx := context.Background()

	page, _, err := env.uc.OpenStats(ctx, 10, link.ID)
	if err != nil {
		t.Fatalf("OpenStats failed: %v", err)
	}
	env.uc.SavePage(10, 555, page)

	if !env.uc.ClosePage(10, 555) {
		t.Fatal("Expected ClosePage to report a live page")
	}
	if _, _, err := env.uc.TurnPage(ctx, 10, 555, 1); !errors.Is(err, trackererrors.ErrStatsPageExpired) {
		t.Errorf("Expected ErrStatsPageExpired after close, got: %v", err)
	}
}

func TestWindowFor(t *testing.T) {
	env := newTestEnv()
	// Fixed clock: 2026-08-29 10:30 IST
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, IST)
	env.uc.now = func() time.Time { return now }

	tests := []struct {
		name      string
		wantSince time.Time
	}{
		{"hour", now.Add(-time.Hour)},
		{"today", time.Date(2026, 8, 29, 0, 0, 0, 0, IST)},
		{"week", now.AddDate(0, 0, -7)},
		{"month", now.AddDate(0, 0, -30)},
		{"year", now.AddDate(0, 0, -365)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.uc.WindowFor(tt.name)
			if w.Since == nil {
				t.Fatal("Expected a bounded window")
			}
			if !w.Since.Equal(tt.wantSince) {
				t.Errorf("Expected since %v, got: %v", tt.wantSince, *w.Since)
			}
		})
	}

	if w := env.uc.WindowFor("bogus"); w.Since != nil || w.Name != "all" {
		t.Errorf("Expected unbounded all-time window, got: %+v", w)
	}
}

func TestOpenStats_HourWindow(t *testing.T) {
	env := newTestEnv()
	account := env.connect()
	link := seedStats(t, env, account, 4)
	ctx := context.Background()

	// Hour window opens at 12:02 UTC and catches the final two joins
	env.uc.now = func() time.Time {
		return time.Date(2026, 8, 1, 13, 2, 0, 0, time.UTC)
	}

	if _, err := env.uc.BeginStats(ctx, 10, "hour"); err != nil {
		t.Fatalf("BeginStats failed: %v", err)
	}
	page, rows, err := env.uc.OpenStats(ctx, 10, link.ID)
	if err != nil {
		t.Fatalf("OpenStats failed: %v", err)
	}
	if page.Window.Name != "hour" {
		t.Errorf("Expected hour window on the page, got: %s", page.Window.Name)
	}
	if page.Total != 2 {
		t.Errorf("Expected 2 joins within the hour, got: %d", page.Total)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 windowed rows, got: %d", len(rows))
	}
	// Rows outside the window must not leak onto the page
	for _, r := range rows {
		if r.JoinedUserID != 102 && r.JoinedUserID != 103 {
			t.Errorf("Row outside window: user %d", r.JoinedUserID)
		}
	}

	// A later page turn on the same message stays windowed
	env.uc.SavePage(10, 555, page)
	page, _, err = env.uc.TurnPage(ctx, 10, 555, 1)
	if err != nil {
		t.Fatalf("TurnPage failed: %v", err)
	}
	if page.Window.Name != "hour" {
		t.Errorf("Expected the window to survive page turns, got: %s", page.Window.Name)
	}
}

func TestOpenStats_InclusiveLowerBound(t *testing.T) {
	env := newTestEnv()
	account := env.connect()
	link := seedStats(t, env, account, 3)
	ctx := context.Background()

	// Since exactly equals the middle join's timestamp; it must count
	env.uc.now = func() time.Time {
		return time.Date(2026, 8, 1, 13, 1, 0, 0, time.UTC)
	}

	if _, err := env.uc.BeginStats(ctx, 10, "hour"); err != nil {
		t.Fatalf("BeginStats failed: %v", err)
	}
	page, _, err := env.uc.OpenStats(ctx, 10, link.ID)
	if err != nil {
		t.Fatalf("OpenStats failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected boundary join to be included, got: %d", page.Total)
	}
}

func TestOpenStats_InclusiveUpperBound(t *testing.T) {
	env := newTestEnv()
	account := env.connect()
	link := seedStats(t, env, account, 3)
	ctx := context.Background()

	// Until exactly equals the middle join's timestamp; it must count
	until := time.Date(2026, 8, 1, 12, 1, 0, 0, time.UTC)
	env.uc.windows.Set(10, Window{Name: "all", Until: &until})

	page, rows, err := env.uc.OpenStats(ctx, 10, link.ID)
	if err != nil {
		t.Fatalf("OpenStats failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected boundary join to be included, got: %d", page.Total)
	}
	for _, r := range rows {
		if r.JoinedAt.After(until) {
			t.Errorf("Row past the upper bound: user %d at %v", r.JoinedUserID, r.JoinedAt)
		}
	}
}

func TestOpenStats_ResolvesLiveNames(t *testing.T) {
	env := newTestEnv()
	account := env.connect()
	link := seedStats(t, env, account, 2)
	ctx := context.Background()

	// User 100 renamed since sync; user 101 is unresolvable and keeps
	// the stored name.
	account.resolved[100] = &entities.TelegramUser{ID: 100, FirstName: "Renamed"}

	_, rows, err := env.uc.OpenStats(ctx, 10, link.ID)
	if err != nil {
		t.Fatalf("OpenStats failed: %v", err)
	}
	byUser := make(map[int64]string, len(rows))
	for _, r := range rows {
		byUser[r.JoinedUserID] = r.JoinedUsername
	}
	if byUser[100] != "Renamed" {
		t.Errorf("Expected live name for user 100, got: %q", byUser[100])
	}
	if byUser[101] != "user1" {
		t.Errorf("Expected stored fallback for user 101, got: %q", byUser[101])
	}
}

func TestResolveRowNames_Placeholder(t *testing.T) {
	env := newTestEnv()

	rows := []entities.JoinRecord{
		{JoinedUserID: 900},
		{JoinedUserID: 901},
	}
	env.uc.resolveRowNames(context.Background(), nil, rows, 15)
	if rows[0].JoinedUsername != "User 16" || rows[1].JoinedUsername != "User 17" {
		t.Errorf("Expected positional placeholders, got: %q, %q",
			rows[0].JoinedUsername, rows[1].JoinedUsername)
	}
}

func TestBeginStats_Gating(t *testing.T) {
	env := newTestEnv()
	env.connect()
	env.ent.active = false

	_, err := env.uc.BeginStats(context.Background(), 10, "all")
	if !errors.Is(err, trackererrors.ErrSubscriptionRequired) {
		t.Errorf("Expected ErrSubscriptionRequired, got: %v", err)
	}

	env.ent.active = true
	if _, err := env.uc.BeginStats(context.Background(), 10, "all"); !errors.Is(err, trackererrors.ErrLinkNotFound) {
		t.Errorf("Expected ErrLinkNotFound with no links, got: %v", err)
	}
}
