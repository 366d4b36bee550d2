package business

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

// mockSessionRepo is an in-memory deps.SessionRepository
type mockSessionRepo struct {
	sessions map[int64]*entities.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[int64]*entities.Session)}
}

func (m *mockSessionRepo) Get(_ context.Context, userID int64) (*entities.Session, error) {
	s, ok := m.sessions[userID]
	if !ok {
		return nil, trackererrors.ErrNoSession
	}
	cp := *s
	return &cp, nil
}

func (m *mockSessionRepo) Upsert(_ context.Context, session *entities.Session) error {
	cp := *session
	m.sessions[session.UserID] = &cp
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, userID int64) error {
	delete(m.sessions, userID)
	return nil
}

// mockLinkRepo is an in-memory deps.LinkRepository sharing join rows
// with mockJoinRepo so cascade deletes can be observed.
type mockLinkRepo struct {
	links  []entities.InviteLink
	joins  *mockJoinRepo
	nextID int64
}

func newMockLinkRepo(joins *mockJoinRepo) *mockLinkRepo {
	return &mockLinkRepo{joins: joins, nextID: 1}
}

func (m *mockLinkRepo) Save(_ context.Context, link *entities.InviteLink) error {
	for i := range m.links {
		if m.links[i].UserID == link.UserID &&
			m.links[i].ChatID == link.ChatID &&
			m.links[i].InviteLink == link.InviteLink {
			link.ID = m.links[i].ID
			m.links[i] = *link
			return nil
		}
	}
	link.ID = m.nextID
	m.nextID++
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	m.links = append(m.links, *link)
	return nil
}

func (m *mockLinkRepo) ListActive(_ context.Context, userID int64) ([]entities.InviteLink, error) {
	var out []entities.InviteLink
	for i := range m.links {
		if m.links[i].UserID == userID && m.links[i].IsActive {
			out = append(out, m.links[i])
		}
	}
	return out, nil
}

func (m *mockLinkRepo) Get(_ context.Context, userID, linkID int64) (*entities.InviteLink, error) {
	for i := range m.links {
		if m.links[i].UserID == userID && m.links[i].ID == linkID {
			cp := m.links[i]
			return &cp, nil
		}
	}
	return nil, trackererrors.ErrLinkNotFound
}

func (m *mockLinkRepo) DeleteWithJoins(ctx context.Context, userID int64, linkIDs []int64) error {
	ids := make(map[int64]bool, len(linkIDs))
	for _, id := range linkIDs {
		ids[id] = true
	}

	kept := m.links[:0]
	for _, l := range m.links {
		if l.UserID == userID && ids[l.ID] {
			continue
		}
		kept = append(kept, l)
	}
	m.links = kept

	for id := range ids {
		if err := m.joins.ReplaceForLink(ctx, userID, id, nil); err != nil {
			return err
		}
	}
	return nil
}

// mockJoinRepo is an in-memory deps.JoinRepository
type mockJoinRepo struct {
	rows []entities.JoinRecord
}

func newMockJoinRepo() *mockJoinRepo {
	return &mockJoinRepo{}
}

func (m *mockJoinRepo) ReplaceForLink(_ context.Context, userID, linkID int64, rows []entities.JoinRecord) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.UserID == userID && r.InviteLinkID == linkID {
			continue
		}
		kept = append(kept, r)
	}
	m.rows = append(kept, rows...)
	return nil
}

func (m *mockJoinRepo) matching(userID, linkID int64, since, until *time.Time) []entities.JoinRecord {
	var out []entities.JoinRecord
	for _, r := range m.rows {
		if r.UserID != userID || r.InviteLinkID != linkID {
			continue
		}
		if since != nil && r.JoinedAt.Before(*since) {
			continue
		}
		if until != nil && r.JoinedAt.After(*until) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.After(out[j].JoinedAt) })
	return out
}

func (m *mockJoinRepo) CountForLink(_ context.Context, userID, linkID int64, since, until *time.Time) (int64, error) {
	return int64(len(m.matching(userID, linkID, since, until))), nil
}

func (m *mockJoinRepo) PageForLink(_ context.Context, userID, linkID int64, since, until *time.Time, offset, limit int) ([]entities.JoinRecord, error) {
	all := m.matching(userID, linkID, since, until)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// mockAccount is a scriptable deps.TelegramAccount
type mockAccount struct {
	self      *entities.TelegramUser
	dialogs   []entities.DialogInfo
	exported  map[int64]string
	importers map[string][]entities.Importer
	resolved  map[int64]*entities.TelegramUser

	exportErr    error
	importerErrs map[string]error
}

func newMockAccount() *mockAccount {
	return &mockAccount{
		self:         &entities.TelegramUser{ID: 1, FirstName: "Test"},
		exported:     make(map[int64]string),
		importers:    make(map[string][]entities.Importer),
		resolved:     make(map[int64]*entities.TelegramUser),
		importerErrs: make(map[string]error),
	}
}

func (m *mockAccount) Dialogs(_ context.Context, _, max int) ([]entities.DialogInfo, error) {
	if len(m.dialogs) > max {
		return m.dialogs[:max], nil
	}
	return m.dialogs, nil
}

func (m *mockAccount) ExportInviteLink(_ context.Context, peer entities.PeerRef) (string, error) {
	if m.exportErr != nil {
		return "", m.exportErr
	}
	url, ok := m.exported[peer.ChatID]
	if !ok {
		return "", trackererrors.ErrExportInviteFailed
	}
	return url, nil
}

func (m *mockAccount) InviteImporters(_ context.Context, _ entities.PeerRef, slug string, limit int) ([]entities.Importer, error) {
	if err := m.importerErrs[slug]; err != nil {
		return nil, err
	}
	imps := m.importers[slug]
	if len(imps) > limit {
		imps = imps[:limit]
	}
	return imps, nil
}

func (m *mockAccount) ResolveUser(_ context.Context, userID int64) (*entities.TelegramUser, error) {
	if u, ok := m.resolved[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("no entity for user %d", userID)
}

func (m *mockAccount) Self(_ context.Context) (*entities.TelegramUser, error) {
	return m.self, nil
}

// mockLoginClient is a scriptable deps.LoginClient
type mockLoginClient struct {
	*mockAccount

	sendCodeErr error
	signInErr   error
	passwordErr error

	authorized bool
	codeHash   string
	sentCodes  int
	closed     bool
	file       string
}

func newMockLoginClient() *mockLoginClient {
	return &mockLoginClient{
		mockAccount: newMockAccount(),
		codeHash:    "hash-1",
		file:        "1_123456.json",
	}
}

func (m *mockLoginClient) IsAuthorized(_ context.Context) (bool, error) {
	return m.authorized, nil
}

func (m *mockLoginClient) SendCode(_ context.Context, _ string) (string, error) {
	if m.sendCodeErr != nil {
		return "", m.sendCodeErr
	}
	m.sentCodes++
	return m.codeHash, nil
}

func (m *mockLoginClient) SignIn(_ context.Context, _, _, _ string) error {
	return m.signInErr
}

func (m *mockLoginClient) Password(_ context.Context, _ string) error {
	return m.passwordErr
}

func (m *mockLoginClient) SessionFile() string { return m.file }

func (m *mockLoginClient) Close(_ context.Context) error {
	m.closed = true
	return nil
}

// mockAuthenticator is a scriptable deps.Authenticator
type mockAuthenticator struct {
	client      *mockLoginClient
	newErr      error
	promoted    map[int64]deps.LoginClient
	removedFile string
}

func newMockAuthenticator(client *mockLoginClient) *mockAuthenticator {
	return &mockAuthenticator{
		client:   client,
		promoted: make(map[int64]deps.LoginClient),
	}
}

func (m *mockAuthenticator) NewLoginClient(_ context.Context, _ int64, _ string) (deps.LoginClient, error) {
	if m.newErr != nil {
		return nil, m.newErr
	}
	return m.client, nil
}

func (m *mockAuthenticator) Promote(userID int64, client deps.LoginClient) {
	m.promoted[userID] = client
}

func (m *mockAuthenticator) RemoveCredential(sessionFile string) error {
	m.removedFile = sessionFile
	return nil
}

// mockProvider is a scriptable deps.AccountProvider
type mockProvider struct {
	account     *mockAccount
	err         error
	invalidated []int64
}

func (m *mockProvider) Account(_ context.Context, _ int64) (deps.TelegramAccount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.account, nil
}

func (m *mockProvider) Invalidate(_ context.Context, userID int64) {
	m.invalidated = append(m.invalidated, userID)
}

// mockEntitlements is a fixed deps.EntitlementChecker
type mockEntitlements struct {
	active bool
	err    error
}

func (m *mockEntitlements) HasActive(_ context.Context, _ int64) (bool, error) {
	return m.active, m.err
}

// sessionFixture builds an active session row for seeding
func sessionFixture(userID int64) *entities.Session {
	return &entities.Session{
		UserID:      userID,
		Phone:       "+123",
		SessionFile: "10_123.json",
		IsActive:    true,
	}
}

// testEnv bundles a use case with all its mocks
type testEnv struct {
	uc       *UseCase
	sessions *mockSessionRepo
	links    *mockLinkRepo
	joins    *mockJoinRepo
	provider *mockProvider
	auth     *mockAuthenticator
	client   *mockLoginClient
	ent      *mockEntitlements
}

func newTestEnv() *testEnv {
	joins := newMockJoinRepo()
	links := newMockLinkRepo(joins)
	sessions := newMockSessionRepo()
	client := newMockLoginClient()
	auth := newMockAuthenticator(client)
	provider := &mockProvider{err: trackererrors.ErrNoSession}
	ent := &mockEntitlements{active: true}

	uc := NewUseCase(sessions, links, joins, provider, auth, ent, zerolog.Nop())
	return &testEnv{
		uc:       uc,
		sessions: sessions,
		links:    links,
		joins:    joins,
		provider: provider,
		auth:     auth,
		client:   client,
		ent:      ent,
	}
}
