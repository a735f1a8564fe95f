// Package memrepo provides in-memory implementations of the domain
// repositories for service and handler tests. They return the same
// AppErrors as the gorm repositories.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	impl "github.com/bravo68web/odinpkg/internal/infrastructure/repository"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

// Store holds every table in memory
type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	tokens   map[uuid.UUID]*models.ApiToken
	packages map[uuid.UUID]*models.Package
	versions map[uuid.UUID]*models.Version
	edges    map[uuid.UUID][]uuid.UUID // version -> depends on
	flags    map[uuid.UUID]*models.Flag
	tags     map[uuid.UUID]*models.Tag
	tagged   map[tagKey]int        // package tag -> score
	votes    map[voteKey]int       // package tag vote -> value
	marks    map[markKey]time.Time // bookmark -> created

	// Fail, when set, is returned as a database error by every call
	Fail error
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*models.User),
		tokens:   make(map[uuid.UUID]*models.ApiToken),
		packages: make(map[uuid.UUID]*models.Package),
		versions: make(map[uuid.UUID]*models.Version),
		edges:    make(map[uuid.UUID][]uuid.UUID),
		flags:    make(map[uuid.UUID]*models.Flag),
		tags:     make(map[uuid.UUID]*models.Tag),
		tagged:   make(map[tagKey]int),
		votes:    make(map[voteKey]int),
		marks:    make(map[markKey]time.Time),
	}
}

// Users returns the store as a UserRepository
func (s *Store) Users() repository.UserRepository { return (*userRepo)(s) }

// Tokens returns the store as a TokenRepository
func (s *Store) Tokens() repository.TokenRepository { return (*tokenRepo)(s) }

// Packages returns the store as a PackageRepository
func (s *Store) Packages() repository.PackageRepository { return (*packageRepo)(s) }

// Versions returns the store as a VersionRepository
func (s *Store) Versions() repository.VersionRepository { return (*versionRepo)(s) }

// Catalog returns the store as a CatalogRepository
func (s *Store) Catalog() repository.CatalogRepository { return (*catalogRepo)(s) }

// Flags returns the store as a FlagRepository
func (s *Store) Flags() repository.FlagRepository { return (*flagRepo)(s) }

// Tags returns the store as a TagRepository
func (s *Store) Tags() repository.TagRepository { return (*tagRepo)(s) }

// Bookmarks returns the store as a BookmarkRepository
func (s *Store) Bookmarks() repository.BookmarkRepository { return (*bookmarkRepo)(s) }

// Queries returns the store as CatalogQueries
func (s *Store) Queries() repository.CatalogQueries { return (*queries)(s) }

// Edges returns the dependency edges leaving a version
func (s *Store) Edges(versionID uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.edges[versionID]...)
}

// VersionCount returns the number of stored versions
func (s *Store) VersionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.versions)
}

func (s *Store) lock() (func(), error) {
	s.mu.Lock()
	if s.Fail != nil {
		s.mu.Unlock()
		return nil, apperrors.DatabaseError("query", s.Fail)
	}
	return s.mu.Unlock, nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (s *Store) packageCopy(p *models.Package) *models.Package {
	c := *p
	c.Keywords = append(pq.StringArray(nil), p.Keywords...)
	if owner, ok := s.users[p.OwnerID]; ok {
		c.Owner = copyUser(owner)
	}
	c.Versions = nil
	return &c
}

func (s *Store) versionCopy(v *models.Version) *models.Version {
	c := *v
	if pkg, ok := s.packages[v.PackageID]; ok {
		c.Package = s.packageCopy(pkg)
	}
	return &c
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	for _, u := range s.users {
		if u.Login == user.Login {
			return apperrors.Conflict("login already taken", nil)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if u, ok := s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, apperrors.NotFound("user", apperrors.ErrNotFound)
}

func (r *userRepo) find(match func(*models.User) bool) (*models.User, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, u := range s.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.NotFound("user", apperrors.ErrNotFound)
}

func (r *userRepo) FindByLogin(_ context.Context, login string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Login == login })
}

func (r *userRepo) FindByProviderSubject(_ context.Context, provider, subject string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Provider == provider && u.ProviderSubject == subject })
}

func (r *userRepo) Update(_ context.Context, user *models.User) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.users[user.ID]; !ok {
		return apperrors.NotFound("user", apperrors.ErrNotFound)
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*models.User, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Login < users[j].Login })
	return page(users, limit, offset), nil
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()
	return int64(len(s.users)), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type tokenRepo Store

func (r *tokenRepo) Create(_ context.Context, token *models.ApiToken) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	c := *token
	s.tokens[token.ID] = &c
	return nil
}

func (r *tokenRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ApiToken, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if t, ok := s.tokens[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, apperrors.NotFound("token", apperrors.ErrNotFound)
}

func (r *tokenRepo) FindByHash(_ context.Context, hash string) (*models.ApiToken, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, t := range s.tokens {
		if t.TokenHash == hash {
			c := *t
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("token", apperrors.ErrNotFound)
}

func (r *tokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*models.ApiToken, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var tokens []*models.ApiToken
	for _, t := range s.tokens {
		if t.UserID == userID {
			c := *t
			tokens = append(tokens, &c)
		}
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].CreatedAt.After(tokens[j].CreatedAt) })
	return tokens, nil
}

func (r *tokenRepo) Revoke(_ context.Context, id uuid.UUID) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	t, ok := s.tokens[id]
	if !ok {
		return apperrors.NotFound("token", apperrors.ErrNotFound)
	}
	t.Revoked = true
	return nil
}

func (r *tokenRepo) Touch(_ context.Context, id uuid.UUID) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if t, ok := s.tokens[id]; ok {
		now := time.Now()
		t.LastTouched = &now
	}
	return nil
}

func (r *tokenRepo) CountActive(_ context.Context) (int64, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, t := range s.tokens {
		if !t.Revoked {
			n++
		}
	}
	return n, nil
}

type packageRepo Store

func (r *packageRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Package, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if p, ok := s.packages[id]; ok {
		return s.packageCopy(p), nil
	}
	return nil, apperrors.NotFound("package", apperrors.ErrNotFound)
}

func (r *packageRepo) FindByIdentity(_ context.Context, id pkgid.Identity) (*models.Package, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if p := s.packageByIdentity(id); p != nil {
		return s.packageCopy(p), nil
	}
	return nil, apperrors.NotFound("package", apperrors.ErrNotFound)
}

func (s *Store) packageByIdentity(id pkgid.Identity) *models.Package {
	for _, p := range s.packages {
		if p.HostName == id.Host && p.OwnerName == id.Owner && p.RepoName == id.Repo {
			return p
		}
	}
	return nil
}

func (r *packageRepo) Match(_ context.Context, id pkgid.Identity) ([]*models.Package, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*models.Package
	for _, p := range s.packages {
		var ok bool
		if id.Scheme == pkgid.SchemeSlug {
			ok = strings.EqualFold(p.OwnerName, id.Owner) && p.Slug == id.Slug
		} else {
			ok = strings.EqualFold(p.HostName, id.Host) &&
				strings.EqualFold(p.OwnerName, id.Owner) &&
				strings.EqualFold(p.RepoName, id.Repo)
		}
		if ok {
			out = append(out, s.packageCopy(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *packageRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Package, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*models.Package
	for _, p := range s.packages {
		if p.OwnerID == ownerID {
			out = append(out, s.packageCopy(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out, nil
}

func (r *packageRepo) UpdateMetadata(_ context.Context, pkg *models.Package) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	stored, ok := s.packages[pkg.ID]
	if !ok {
		return apperrors.NotFound("package", apperrors.ErrNotFound)
	}
	stored.Description = pkg.Description
	stored.Keywords = append(pq.StringArray(nil), pkg.Keywords...)
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *packageRepo) Count(_ context.Context) (int64, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()
	return int64(len(s.packages)), nil
}

// AddPackage inserts a package directly, bypassing the publish path
func (s *Store) AddPackage(p *models.Package) *models.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = pkgid.Slug(p.RepoName)
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	c := *p
	s.packages[p.ID] = &c
	return p
}

// AddVersion inserts a version directly, bypassing the publish path
func (s *Store) AddVersion(v *models.Version, dependsOn ...uuid.UUID) *models.Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	c := *v
	c.Package = nil
	s.versions[v.ID] = &c
	if len(dependsOn) > 0 {
		s.edges[v.ID] = append([]uuid.UUID(nil), dependsOn...)
	}
	return v
}

type versionRepo Store

func (r *versionRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Version, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if v, ok := s.versions[id]; ok {
		return s.versionCopy(v), nil
	}
	return nil, apperrors.NotFound("version", apperrors.ErrNotFound)
}

func (r *versionRepo) FindByPackageAndVersion(_ context.Context, packageID uuid.UUID, version string) (*models.Version, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, v := range s.versions {
		if v.PackageID == packageID && v.Version == version {
			c := *v
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("version", apperrors.ErrNotFound)
}

func (r *versionRepo) ListByPackage(_ context.Context, packageID uuid.UUID) ([]*models.Version, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*models.Version
	for _, v := range s.versions {
		if v.PackageID == packageID {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return pkgid.CompareVersions(out[i].Version, out[j].Version) > 0 })
	return out, nil
}

func (r *versionRepo) Dependencies(_ context.Context, versionID uuid.UUID) ([]*models.Version, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*models.Version
	for _, id := range s.edges[versionID] {
		if v, ok := s.versions[id]; ok {
			out = append(out, s.versionCopy(v))
		}
	}
	return out, nil
}

func (r *versionRepo) IsReferenced(_ context.Context, versionID uuid.UUID) (bool, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return false, err
	}
	defer unlock()
	return s.referenced(versionID, nil), nil
}

// referenced reports whether a version outside exclude depends on versionID
func (s *Store) referenced(versionID uuid.UUID, exclude map[uuid.UUID]bool) bool {
	for from, targets := range s.edges {
		if exclude[from] {
			continue
		}
		for _, t := range targets {
			if t == versionID {
				return true
			}
		}
	}
	return false
}

func (r *versionRepo) Count(_ context.Context) (int64, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()
	return int64(len(s.versions)), nil
}

type catalogRepo Store

func (r *catalogRepo) UpsertFullPackage(_ context.Context, in *repository.PackageUpsert) (*models.Package, *models.Version, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	now := time.Now()
	pkg := s.packageByIdentity(in.Identity)
	if pkg != nil && pkg.OwnerID != in.OwnerID {
		return nil, nil, apperrors.Forbidden(fmt.Sprintf("%s is owned by another user", in.Identity), apperrors.ErrForbidden)
	}
	if pkg != nil {
		for _, v := range s.versions {
			if v.PackageID == pkg.ID && v.Version == in.Version.Version {
				return nil, nil, impl.VersionConflict(in.Identity.String(), in.Version.Version)
			}
		}
	}
	for _, dep := range in.Dependencies {
		if _, ok := s.versions[dep]; !ok {
			return nil, nil, apperrors.DatabaseError("insert dependencies", fmt.Errorf("version %s does not exist", dep))
		}
	}

	// nothing above mutated the store, so the writes below apply as a unit
	if pkg == nil {
		pkg = &models.Package{
			ID:        uuid.New(),
			HostName:  in.Identity.Host,
			OwnerName: in.Identity.Owner,
			RepoName:  in.Identity.Repo,
			OwnerID:   in.OwnerID,
			CreatedAt: now,
		}
		s.packages[pkg.ID] = pkg
	}
	pkg.Slug = in.Identity.Slug
	pkg.Description = in.Description
	pkg.ReadmeHTML = in.ReadmeHTML
	pkg.URL = in.URL
	pkg.Keywords = pq.StringArray(in.Keywords)
	pkg.UpdatedAt = now

	version := in.Version
	version.ID = uuid.New()
	version.PackageID = pkg.ID
	version.CreatedAt = now
	version.Package = nil
	stored := version
	s.versions[version.ID] = &stored
	if len(in.Dependencies) > 0 {
		s.edges[version.ID] = append([]uuid.UUID(nil), in.Dependencies...)
	}

	return s.packageCopy(pkg), &version, nil
}

func (r *catalogRepo) DeleteVersion(_ context.Context, versionID uuid.UUID) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.versions[versionID]; !ok {
		return apperrors.NotFound("version", apperrors.ErrNotFound)
	}
	if s.referenced(versionID, nil) {
		return apperrors.Conflict(impl.MsgReferencedVersion, apperrors.ErrReferencedDependency)
	}
	delete(s.edges, versionID)
	delete(s.versions, versionID)
	return nil
}

func (r *catalogRepo) DeletePackage(_ context.Context, packageID uuid.UUID) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.packages[packageID]; !ok {
		return apperrors.NotFound("package", apperrors.ErrNotFound)
	}
	own := make(map[uuid.UUID]bool)
	for id, v := range s.versions {
		if v.PackageID == packageID {
			own[id] = true
		}
	}
	for id := range own {
		if s.referenced(id, own) {
			return apperrors.Conflict(impl.MsgReferencedPackage, apperrors.ErrReferencedDependency)
		}
	}
	for id := range own {
		delete(s.edges, id)
		delete(s.versions, id)
	}
	delete(s.packages, packageID)
	for k := range s.tagged {
		if k.pkg == packageID {
			delete(s.tagged, k)
		}
	}
	for k := range s.votes {
		if k.pkg == packageID {
			delete(s.votes, k)
		}
	}
	for k := range s.marks {
		if k.pkg == packageID {
			delete(s.marks, k)
		}
	}
	return nil
}

type flagRepo Store

func (r *flagRepo) Create(_ context.Context, flag *models.Flag) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	for _, f := range s.flags {
		if f.Status == models.FlagPending && f.PackageID == flag.PackageID && f.ReporterID == flag.ReporterID {
			return apperrors.Conflict("You have already flagged this package", apperrors.ErrFlagExists)
		}
	}
	if flag.ID == uuid.Nil {
		flag.ID = uuid.New()
	}
	if flag.Status == "" {
		flag.Status = models.FlagPending
	}
	now := time.Now()
	flag.CreatedAt, flag.UpdatedAt = now, now
	c := *flag
	s.flags[flag.ID] = &c
	return nil
}

func (s *Store) flagCopy(f *models.Flag) *models.Flag {
	c := *f
	if p, ok := s.packages[f.PackageID]; ok {
		c.Package = s.packageCopy(p)
	}
	if u, ok := s.users[f.ReporterID]; ok {
		c.Reporter = copyUser(u)
	}
	return &c
}

func (r *flagRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Flag, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if f, ok := s.flags[id]; ok {
		return s.flagCopy(f), nil
	}
	return nil, apperrors.NotFound("flag", apperrors.ErrNotFound)
}

func (r *flagRepo) FindPending(_ context.Context, packageID, reporterID uuid.UUID) (*models.Flag, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, f := range s.flags {
		if f.Status == models.FlagPending && f.PackageID == packageID && f.ReporterID == reporterID {
			return s.flagCopy(f), nil
		}
	}
	return nil, apperrors.NotFound("flag", apperrors.ErrNotFound)
}

func (r *flagRepo) List(_ context.Context, filter repository.FlagFilter) ([]*models.Flag, int64, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	var out []*models.Flag
	for _, f := range s.flags {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if filter.PackageID != nil && f.PackageID != *filter.PackageID {
			continue
		}
		out = append(out, s.flagCopy(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (r *flagRepo) ListByReporter(_ context.Context, reporterID uuid.UUID) ([]*models.Flag, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*models.Flag
	for _, f := range s.flags {
		if f.ReporterID == reporterID {
			out = append(out, s.flagCopy(f))
		}
	}
	return out, nil
}

func (r *flagRepo) Update(_ context.Context, flag *models.Flag) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.flags[flag.ID]; !ok {
		return apperrors.NotFound("flag", apperrors.ErrNotFound)
	}
	c := *flag
	c.Package, c.Reporter = nil, nil
	c.UpdatedAt = time.Now()
	s.flags[flag.ID] = &c
	return nil
}

func (r *flagRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.flags[id]; !ok {
		return apperrors.NotFound("flag", apperrors.ErrNotFound)
	}
	delete(s.flags, id)
	return nil
}

func (r *flagRepo) CountByStatus(_ context.Context) (map[models.FlagStatus]int64, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	counts := make(map[models.FlagStatus]int64)
	for _, f := range s.flags {
		counts[f.Status]++
	}
	return counts, nil
}
