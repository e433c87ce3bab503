package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
	"github.com/PJH6029/waffle-assignment-2/internal/repository"
)

// UserHandler serves the authenticated user's own profile, including
// the seminars embedded in each profile kind.
type UserHandler struct {
	Users       *repository.UserRepo
	Enrollments *repository.EnrollmentRepo
}

func NewUserHandler(u *repository.UserRepo, e *repository.EnrollmentRepo) *UserHandler {
	if u == nil || e == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: u, Enrollments: e}
}

// participantPart is the participant profile as exposed over the API,
// with the user's seminar memberships embedded.
type participantPart struct {
	ID         uint64                     `json:"id"`
	University string                     `json:"university"`
	Accepted   bool                       `json:"accepted"`
	Seminars   []repository.SeminarOfUser `json:"seminars"`
}

// instructorPart is the instructor profile as exposed over the API,
// with the seminar in the instructor's charge embedded (nil when the
// instructor has not created one yet).
type instructorPart struct {
	ID      uint64                    `json:"id"`
	Company string                    `json:"company"`
	Year    *int                      `json:"year"`
	Charge  *repository.SeminarCharge `json:"charge"`
}

type userResp struct {
	ID          uint64           `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	LastLogin   *time.Time       `json:"last_login"`
	DateJoined  time.Time        `json:"date_joined"`
	Participant *participantPart `json:"participant"`
	Instructor  *instructorPart  `json:"instructor"`
}

func (h *UserHandler) buildUserResp(ctx context.Context, u model.User) (*userResp, error) {
	resp := &userResp{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		LastLogin:  u.LastLogin,
		DateJoined: u.CreatedAt,
	}
	if p, err := h.Users.GetParticipantProfile(ctx, u.ID); err == nil {
		seminars, err := h.Enrollments.ListForUser(ctx, u.ID, model.RoleParticipant)
		if err != nil {
			return nil, err
		}
		resp.Participant = &participantPart{
			ID:         p.ID,
			University: p.University,
			Accepted:   p.Accepted,
			Seminars:   seminars,
		}
	} else if err != sql.ErrNoRows {
		return nil, err
	}
	if ip, err := h.Users.GetInstructorProfile(ctx, u.ID); err == nil {
		charge, err := h.Enrollments.Charge(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		resp.Instructor = &instructorPart{
			ID:      ip.ID,
			Company: ip.Company,
			Year:    ip.Year,
			Charge:  charge,
		}
	} else if err != sql.ErrNoRows {
		return nil, err
	}
	return resp, nil
}

// Me handles GET /v1/user/me: the authenticated user plus whichever
// profile it owns.
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	resp, err := h.buildUserResp(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

type updateMeReq struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	University *string `json:"university"`
	Company    *string `json:"company"`
	Year       *int    `json:"year"`
}

// UpdateMe handles PUT /v1/user/me: a partial update of name and
// profile fields, validated with the same rules as registration.
// Fields for the profile kind the user does not own are ignored.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Year != nil && *req.Year <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year should be a positive number"})
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	// Validate names against the effective post-update values so that
	// supplying only one half of an existing pair stays legal.
	first, last := u.FirstName, u.LastName
	if req.FirstName != nil {
		first = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		last = strings.TrimSpace(*req.LastName)
	}
	if err := validateNames(first, last); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	upd := repository.ProfileUpdate{
		University: req.University,
		Company:    req.Company,
		Year:       req.Year,
	}
	if req.FirstName != nil {
		upd.FirstName = &first
	}
	if req.LastName != nil {
		upd.LastName = &last
	}
	if err := h.Users.UpdateProfile(ctx, userID, upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err = h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	resp, err := h.buildUserResp(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, resp)
}
