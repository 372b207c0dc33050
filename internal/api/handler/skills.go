package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/getclawkit/clawkit/internal/api/models"
	"github.com/getclawkit/clawkit/internal/api/response"
	"github.com/getclawkit/clawkit/internal/skills"
)

// Listing responses are edge-cacheable: skills change only on sync runs.
const (
	listCacheMaxAge               = 60
	listCacheStaleWhileRevalidate = 300
)

// SkillsHandler handles the public skill catalog endpoints.
type SkillsHandler struct {
	service *skills.Service
}

// NewSkillsHandler creates a new SkillsHandler.
func NewSkillsHandler(service *skills.Service) *SkillsHandler {
	return &SkillsHandler{service: service}
}

// ListSkills handles GET /v1/skills - paginated catalog listing.
func (h *SkillsHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	opts := skills.ListOptions{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "pageSize", skills.DefaultPageSize),
		Search:   r.URL.Query().Get("search"),
	}

	result, err := h.service.List(r.Context(), opts)
	if err != nil {
		response.InternalError(w, r, "failed to list skills")
		return
	}

	summaries := make([]models.SkillSummary, len(result.Items))
	for i, skill := range result.Items {
		summaries[i] = toSkillSummary(skill)
	}

	response.CachedJSON(w, r, listCacheMaxAge, listCacheStaleWhileRevalidate, models.PagedSkills{
		Skills:   summaries,
		Total:    result.Total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	})
}

// GetSkill handles GET /v1/skills/{skillId} - full skill detail.
func (h *SkillsHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	skillID := chi.URLParam(r, "skillId")

	skill, err := h.service.Get(r.Context(), skillID)
	if err != nil {
		if errors.Is(err, skills.ErrSkillNotFound) {
			response.NotFound(w, r, "skill not found")
			return
		}
		response.InternalError(w, r, "failed to load skill")
		return
	}

	response.JSON(w, r, http.StatusOK, toSkillDetail(skill))
}

// RandomSkills handles GET /v1/skills/random - random catalog sample.
func (h *SkillsHandler) RandomSkills(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", skills.DefaultRandomCount)

	items, err := h.service.Random(r.Context(), count)
	if err != nil {
		response.InternalError(w, r, "failed to sample skills")
		return
	}

	summaries := make([]models.SkillSummary, len(items))
	for i, skill := range items {
		summaries[i] = toSkillSummary(skill)
	}

	response.JSON(w, r, http.StatusOK, models.RandomSkills{Skills: summaries})
}

// Sitemap handles GET /v1/sitemap/skills/{page} - sitemap enumeration.
func (h *SkillsHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		response.BadRequest(w, r, "page must be a positive integer")
		return
	}

	entries, _, err := h.service.SitemapPage(r.Context(), page)
	if err != nil {
		response.InternalError(w, r, "failed to enumerate skills")
		return
	}

	body := models.SitemapPage{
		Page:    page,
		Entries: make([]models.SitemapEntry, len(entries)),
	}
	for i, entry := range entries {
		body.Entries[i] = models.SitemapEntry{
			ID:          entry.ID,
			LastUpdated: models.Timestamp(entry.LastUpdated),
		}
	}

	response.JSON(w, r, http.StatusOK, body)
}

func toSkillSummary(skill *skills.Skill) models.SkillSummary {
	return models.SkillSummary{
		ID:         skill.ID,
		Name:       skill.Name,
		ShortDesc:  skill.ShortDesc,
		Tags:       skill.Tags,
		Author:     skill.Author,
		Stars:      skill.Stars,
		SourceRepo: skill.SourceRepo,
	}
}

func toSkillDetail(skill *skills.Skill) models.Skill {
	return models.Skill{
		ID:          skill.ID,
		Name:        skill.Name,
		ShortDesc:   skill.ShortDesc,
		LongDesc:    skill.LongDesc,
		Author:      skill.Author,
		AuthorURL:   skill.AuthorURL,
		Stars:       skill.Stars,
		LastUpdated: models.Timestamp(skill.LastUpdated),
		Command:     skill.Command,
		Tags:        skill.Tags,
		FileSHA:     skill.FileSHA,
		SourceRepo:  skill.SourceRepo,
		SourcePath:  skill.SourcePath,
		DownloadURL: skill.DownloadURL,
		SEOTitle:    skill.SEOTitle,
		SEODesc:     skill.SEODesc,
	}
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage. Range clamping is the service's job.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
