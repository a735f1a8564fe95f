package memrepo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

type tagKey struct{ pkg, tag uuid.UUID }

type voteKey struct {
	tagKey
	user uuid.UUID
}

type markKey struct{ user, pkg uuid.UUID }

type tagRepo Store

func (r *tagRepo) Attach(_ context.Context, packageID, userID uuid.UUID, name string) (*models.Tag, int, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	var tag *models.Tag
	for _, t := range s.tags {
		if t.Name == name {
			tag = t
			break
		}
	}
	if tag == nil {
		tag = &models.Tag{ID: uuid.New(), Name: name, AddedBy: userID, CreatedAt: time.Now()}
		s.tags[tag.ID] = tag
	}

	key := tagKey{pkg: packageID, tag: tag.ID}
	s.votes[voteKey{tagKey: key, user: userID}] = 1
	score := s.rescore(key)
	c := *tag
	return &c, score, nil
}

func (s *Store) rescore(key tagKey) int {
	score := 0
	for k, v := range s.votes {
		if k.tagKey == key {
			score += v
		}
	}
	s.tagged[key] = score
	return score
}

func (r *tagRepo) Vote(_ context.Context, packageID, tagID, userID uuid.UUID, value int) (int, bool, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return 0, false, err
	}
	defer unlock()

	key := tagKey{pkg: packageID, tag: tagID}
	if _, ok := s.tagged[key]; !ok {
		return 0, false, apperrors.NotFound("tag on package", apperrors.ErrNotFound)
	}
	vk := voteKey{tagKey: key, user: userID}
	if value == 0 {
		delete(s.votes, vk)
	} else {
		s.votes[vk] = value
	}

	score := s.rescore(key)
	if score > 0 {
		return score, false, nil
	}

	for k := range s.votes {
		if k.tagKey == key {
			delete(s.votes, k)
		}
	}
	delete(s.tagged, key)
	used := false
	for k := range s.tagged {
		if k.tag == tagID {
			used = true
			break
		}
	}
	if !used {
		delete(s.tags, tagID)
	}
	return 0, true, nil
}

func (r *tagRepo) ForPackage(_ context.Context, packageID uuid.UUID) ([]repository.TagScore, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []repository.TagScore
	for k, score := range s.tagged {
		if k.pkg == packageID {
			out = append(out, repository.TagScore{ID: k.tag, Name: s.tags[k.tag].Name, Score: score})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *tagRepo) List(_ context.Context, query string, limit int) ([]repository.TagUsage, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	usage := make(map[uuid.UUID]int64)
	for k := range s.tagged {
		usage[k.tag]++
	}
	query = strings.ToLower(query)
	var out []repository.TagUsage
	for id, n := range usage {
		t := s.tags[id]
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		out = append(out, repository.TagUsage{ID: id, Name: t.Name, UsageCount: n, CreatedAt: t.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, 0), nil
}

type bookmarkRepo Store

func (r *bookmarkRepo) Add(_ context.Context, userID, packageID uuid.UUID) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	key := markKey{user: userID, pkg: packageID}
	if _, ok := s.marks[key]; !ok {
		s.marks[key] = time.Now()
	}
	return nil
}

func (r *bookmarkRepo) Remove(_ context.Context, userID, packageID uuid.UUID) error {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	delete(s.marks, markKey{user: userID, pkg: packageID})
	return nil
}

func (r *bookmarkRepo) Exists(_ context.Context, userID, packageID uuid.UUID) (bool, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return false, err
	}
	defer unlock()

	_, ok := s.marks[markKey{user: userID, pkg: packageID}]
	return ok, nil
}

func (r *bookmarkRepo) Count(_ context.Context, packageID uuid.UUID) (int64, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for k := range s.marks {
		if k.pkg == packageID {
			n++
		}
	}
	return n, nil
}

func (r *bookmarkRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Package, error) {
	s := (*Store)(r)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	type marked struct {
		pkg *models.Package
		at  time.Time
	}
	var found []marked
	for k, at := range s.marks {
		if p, ok := s.packages[k.pkg]; ok && k.user == userID {
			found = append(found, marked{pkg: s.packageCopy(p), at: at})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at.After(found[j].at) })

	out := make([]*models.Package, 0, len(found))
	for _, m := range found {
		out = append(out, m.pkg)
	}
	return out, nil
}
