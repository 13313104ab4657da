package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/askwhyharsh/silverlink/internal/activity"
	"github.com/askwhyharsh/silverlink/internal/auth"
	"github.com/askwhyharsh/silverlink/internal/catalog"
	"github.com/askwhyharsh/silverlink/internal/config"
	"github.com/askwhyharsh/silverlink/internal/location"
	"github.com/askwhyharsh/silverlink/internal/member"
	"github.com/askwhyharsh/silverlink/internal/profile"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
	"github.com/askwhyharsh/silverlink/pkg/validator"
)

// Vocabulary lists what the profile editor offers.
type Vocabulary interface {
	Interests() []string
	ActivityNames() []string
}

type Handler struct {
	catalog    catalog.Provider
	vocabulary Vocabulary
	ranking    *activity.Service
	directory  *member.Directory
	auth       *auth.Service
	profiles   *profile.Service
	validator  validator.Validator
	location   config.LocationConfig
	logger     logger.Logger
}

type HandlerDeps struct {
	Catalog    catalog.Provider
	Vocabulary Vocabulary
	Ranking    *activity.Service
	Directory  *member.Directory
	Auth       *auth.Service
	Profiles   *profile.Service
	Validator  validator.Validator
	Location   config.LocationConfig
	Logger     logger.Logger
}

func NewHandler(d HandlerDeps) *Handler {
	return &Handler{
		catalog:    d.Catalog,
		vocabulary: d.Vocabulary,
		ranking:    d.Ranking,
		directory:  d.Directory,
		auth:       d.Auth,
		profiles:   d.Profiles,
		validator:  d.Validator,
		location:   d.Location,
		logger:     d.Logger,
	}
}

type SortOption struct {
	Mode  activity.SortMode `json:"mode"`
	Label string            `json:"label"`
}

type ActivityListResponse struct {
	Category    activity.Category `json:"category"`
	Sort        SortOption        `json:"sort"`
	SortOptions []SortOption      `json:"sort_options"`
	Count       int               `json:"count"`
	Activities  []activity.Record `json:"activities"`
}

type MemberListResponse struct {
	Reference location.Coordinate `json:"reference"`
	Count     int                 `json:"count"`
	Members   []member.Listing    `json:"members"`
}

type DistanceResponse struct {
	From       location.Coordinate `json:"from"`
	To         location.Coordinate `json:"to"`
	Kilometers float64             `json:"km"`
	Distance   string              `json:"distance"`
}

// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	}))
}

// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"count":      len(cats),
		"categories": cats,
	}))
}

// GET /api/activities/:category?sort=
func (h *Handler) ListActivities(c *gin.Context) {
	ctx := c.Request.Context()

	mode, err := activity.ParseSortMode(c.Query("sort"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cat, err := h.category(ctx, c.Param("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	records, err := h.ranking.Rank(ctx, cat.Slug, mode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	options := make([]SortOption, 0, len(activity.SortModes()))
	for _, m := range activity.SortModes() {
		options = append(options, SortOption{Mode: m, Label: m.Label()})
	}

	c.JSON(http.StatusOK, SuccessResponse(ActivityListResponse{
		Category:    cat,
		Sort:        SortOption{Mode: mode, Label: mode.Label()},
		SortOptions: options,
		Count:       len(records),
		Activities:  records,
	}))
}

// GET /api/activities/:category/:id
func (h *Handler) GetActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("activity id must be an integer", "INVALID_REQUEST"))
		return
	}

	record, err := h.catalog.Activity(c.Request.Context(), c.Param("category"), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(record))
}

func (h *Handler) category(ctx context.Context, slug string) (activity.Category, error) {
	cats, err := h.catalog.Categories(ctx)
	if err != nil {
		return activity.Category{}, err
	}
	for _, cat := range cats {
		if cat.Slug == slug {
			return cat, nil
		}
	}
	return activity.Category{}, fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, slug)
}

// GET /api/members?lat=&lon=|geohash=&radius=&order=nearest
func (h *Handler) ListMembers(c *gin.Context) {
	ref, err := h.reference(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	opts, err := h.listOptions(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	listings, err := h.directory.List(c.Request.Context(), ref, opts)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(MemberListResponse{
		Reference: ref,
		Count:     len(listings),
		Members:   listings,
	}))
}

// GET /api/members/:id?lat=&lon=|geohash=
func (h *Handler) GetMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("member id must be an integer", "INVALID_REQUEST"))
		return
	}

	ref, err := h.reference(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	listing, err := h.directory.Get(c.Request.Context(), ref, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(listing))
}

// reference resolves the viewer's position: a geohash cell centre, an
// explicit lat/lon pair, or the configured default.
func (h *Handler) reference(c *gin.Context) (location.Coordinate, error) {
	if hash := c.Query("geohash"); hash != "" {
		return location.FromGeohash(hash)
	}

	lat, lon := c.Query("lat"), c.Query("lon")
	if lat == "" && lon == "" {
		return location.Coordinate{
			Latitude:  h.location.DefaultLatitude,
			Longitude: h.location.DefaultLongitude,
		}, nil
	}

	return h.parseCoordinate(lat, lon)
}

func (h *Handler) parseCoordinate(latStr, lonStr string) (location.Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return location.Coordinate{}, apperrors.ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return location.Coordinate{}, apperrors.ErrInvalidCoordinates
	}

	if err := h.validator.ValidateCoordinates(lat, lon); err != nil {
		return location.Coordinate{}, err
	}

	return location.Coordinate{Latitude: lat, Longitude: lon}, nil
}

func (h *Handler) listOptions(c *gin.Context) (member.ListOptions, error) {
	var opts member.ListOptions

	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, apperrors.ErrInvalidRadius
		}
		if err := h.validator.ValidateRadius(radius, h.location.MaxRadiusMeters); err != nil {
			return opts, err
		}
		opts.RadiusMeters = radius
	}

	switch order := c.Query("order"); order {
	case "", "default":
	case "nearest":
		opts.Nearest = true
	default:
		return opts, apperrors.BadRequest(fmt.Errorf("unknown order %q", order), "INVALID_ORDER")
	}

	return opts, nil
}

// GET /api/distance?from=lat,lon&to=lat,lon
func (h *Handler) Distance(c *gin.Context) {
	from, err := h.pair(c.Query("from"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := h.pair(c.Query("to"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	km := location.DistanceKm(from, to)
	c.JSON(http.StatusOK, SuccessResponse(DistanceResponse{
		From:       from,
		To:         to,
		Kilometers: km,
		Distance:   location.FormatDistance(km),
	}))
}

func (h *Handler) pair(raw string) (location.Coordinate, error) {
	lat, lon, ok := strings.Cut(raw, ",")
	if !ok {
		return location.Coordinate{}, apperrors.ErrInvalidCoordinates
	}
	return h.parseCoordinate(lat, lon)
}

type registerRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Name            string `json:"name" binding:"required"`
}

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
	}, c.ClientIP())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse(p))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(res))
}

// POST /api/auth/logout?everywhere=true
func (h *Handler) Logout(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	everywhere, _ := strconv.ParseBool(c.Query("everywhere"))
	if err := h.auth.Logout(c.Request.Context(), p, everywhere); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(gin.H{"logged_out": true}))
}

// GET /api/profile/options
func (h *Handler) ProfileOptions(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"interests":  h.vocabulary.Interests(),
		"activities": h.vocabulary.ActivityNames(),
	}))
}

// GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	prof, err := h.profiles.Get(c.Request.Context(), p.AccountID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(prof))
}

// PATCH /api/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var patch profile.Patch
	if !bindJSON(c, &patch) {
		return
	}

	prof, err := h.profiles.Update(c.Request.Context(), p.AccountID, patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(prof))
}

type toggleRequest struct {
	Value string `json:"value" binding:"required"`
}

// POST /api/profile/interests/toggle
func (h *Handler) ToggleInterest(c *gin.Context) {
	h.toggle(c, h.profiles.ToggleInterest)
}

// POST /api/profile/activities/toggle
func (h *Handler) ToggleActivity(c *gin.Context) {
	h.toggle(c, h.profiles.ToggleActivity)
}

func (h *Handler) toggle(c *gin.Context, fn func(ctx context.Context, id, value string) (*profile.Profile, error)) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req toggleRequest
	if !bindJSON(c, &req) {
		return
	}

	prof, err := fn(c.Request.Context(), p.AccountID, req.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(prof))
}

func (h *Handler) principal(c *gin.Context) (*auth.Principal, bool) {
	p, ok := auth.FromContext(c.Request.Context())
	if !ok {
		respondError(c, h.logger, apperrors.ErrUnauthenticated)
		return nil, false
	}
	return p, true
}
