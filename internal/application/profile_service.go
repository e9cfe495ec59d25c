package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	repo "github.com/devlinkhq/devlink-api/internal/domain/repository"
)

// ProfileService applies mutations to the Profile aggregate: scalar
// upserts and ordered experience/education list edits. Every list
// mutation is a load, in-memory transform, version-checked write; a
// lost race reloads and replays.
type ProfileService struct {
	Profiles repo.ProfileRepository
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string
}

func NewProfileService(profiles repo.ProfileRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ProfileService {
	return &ProfileService{Profiles: profiles, Logger: logger, ES: es, ESIndex: esIndex}
}

// ProfileInput is the partial field set for an upsert. Empty fields
// leave the stored values untouched; Skills is a comma-separated list.
type ProfileInput struct {
	Handle         string
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

func (s *ProfileService) Me(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("profile", "get profile", err)
	}
	return p, nil
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	return s.Me(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]entity.Profile, error) {
	out, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable("list profiles", err)
	}
	return out, nil
}

// Upsert merges the supplied fields over the stored profile, or builds
// a fresh one when the owner has none yet. The write itself rides on
// the store's owner-uniqueness constraint, so two racing upserts for
// the same owner converge on one row.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		p = &entity.Profile{UserID: userID}
	} else if err != nil {
		return nil, apperror.StoreUnavailable("upsert profile", err)
	}

	applyProfileInput(p, in)

	if err := s.Profiles.Upsert(ctx, p); err != nil {
		return nil, apperror.StoreUnavailable("upsert profile", err)
	}
	s.indexProfile(ctx, p)
	return p, nil
}

func applyProfileInput(p *entity.Profile, in ProfileInput) {
	if in.Handle != "" {
		p.Handle = in.Handle
	}
	if in.Company != "" {
		p.Company = in.Company
	}
	if in.Website != "" {
		p.Website = in.Website
	}
	if in.Location != "" {
		p.Location = in.Location
	}
	if in.Bio != "" {
		p.Bio = in.Bio
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.GithubUsername != "" {
		p.GithubUsername = in.GithubUsername
	}
	if in.Skills != "" {
		parts := strings.Split(in.Skills, ",")
		skills := make([]string, 0, len(parts))
		for _, sk := range parts {
			if sk = strings.TrimSpace(sk); sk != "" {
				skills = append(skills, sk)
			}
		}
		p.Skills = skills
	}
	if in.Youtube != "" {
		p.Social.Youtube = in.Youtube
	}
	if in.Twitter != "" {
		p.Social.Twitter = in.Twitter
	}
	if in.Facebook != "" {
		p.Social.Facebook = in.Facebook
	}
	if in.Linkedin != "" {
		p.Social.Linkedin = in.Linkedin
	}
	if in.Instagram != "" {
		p.Social.Instagram = in.Instagram
	}
}

// mutate runs a load-transform-write cycle with bounded replays on
// version conflicts. fn sees a freshly loaded aggregate on each try.
func (s *ProfileService) mutate(ctx context.Context, userID string, fn func(*entity.Profile) error) (*entity.Profile, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		p, err := s.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return nil, notFoundOr("profile", "load profile", err)
		}
		if err := fn(p); err != nil {
			return nil, err
		}
		err = s.Profiles.Update(ctx, p)
		if errors.Is(err, repo.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, apperror.StoreUnavailable("update profile", err)
		}
		s.indexProfile(ctx, p)
		return p, nil
	}
	return nil, apperror.Conflict("profile is being modified concurrently, retry")
}

// AddExperience prepends a work-history entry; the list stays ordered
// newest-inserted-first regardless of the entry's date range.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, exp entity.Experience) (*entity.Profile, error) {
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		exp.ID = xid.New().String()
		p.Experience = append([]entity.Experience{exp}, p.Experience...)
		return nil
	})
}

// RemoveExperience deletes the entry whose id matches, and only that
// entry. An unknown id is a reported NotFound, never a blind splice.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*entity.Profile, error) {
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		for i, e := range p.Experience {
			if e.ID == entryID {
				p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
				return nil
			}
		}
		return apperror.NotFound("experience entry")
	})
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, edu entity.Education) (*entity.Profile, error) {
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		edu.ID = xid.New().String()
		p.Education = append([]entity.Education{edu}, p.Education...)
		return nil
	})
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*entity.Profile, error) {
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		for i, e := range p.Education {
			if e.ID == entryID {
				p.Education = append(p.Education[:i], p.Education[i+1:]...)
				return nil
			}
		}
		return apperror.NotFound("education entry")
	})
}

// indexProfile pushes the latest profile into Elasticsearch,
// best-effort: search lag is acceptable, a failed index never fails
// the mutation that triggered it.
func (s *ProfileService) indexProfile(ctx context.Context, p *entity.Profile) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"user_id":  p.UserID,
		"handle":   p.Handle,
		"company":  p.Company,
		"location": p.Location,
		"bio":      p.Bio,
		"status":   p.Status,
		"skills":   p.Skills,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.UserID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", p.UserID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", p.UserID).Warn("es index response error")
	}
}

// Search runs a multi_match over the indexed profile fields.
func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"handle^2", "skills", "bio", "status", "company"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
