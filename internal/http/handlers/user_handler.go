// README: User profile handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vecturo/internal/http/middleware"
	"vecturo/internal/modules/user"
)

type UserHandler struct {
	users *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{users: svc}
}

type upsertUserReq struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	University  string `json:"university"`
}

type userView struct {
	UID            string    `json:"uid"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	PhoneNumber    string    `json:"phoneNumber"`
	University     string    `json:"university"`
	Rating         float64   `json:"rating"`
	RidesCompleted int       `json:"ridesCompleted"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Upsert creates or refreshes the caller's profile on sign-in. The uid
// always comes from the verified token, never the body.
func (h *UserHandler) Upsert(c *gin.Context) {
	var req upsertUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	u, err := h.users.Upsert(c.Request.Context(), user.UpsertCommand{
		UID:         middleware.CallerUID(c),
		Email:       req.Email,
		FullName:    req.DisplayName,
		PhoneNumber: req.PhoneNumber,
		University:  req.University,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toUserView(u))
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toUserView(u))
}

func toUserView(u *user.User) userView {
	return userView{
		UID:            u.UID,
		Email:          u.Email,
		FullName:       u.FullName,
		PhoneNumber:    u.PhoneNumber,
		University:     u.University,
		Rating:         u.Rating,
		RidesCompleted: u.RidesCompleted,
		CreatedAt:      u.CreatedAt,
	}
}
