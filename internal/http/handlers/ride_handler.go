// README: Ride handlers: create, fetch, list, and request-match.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vecturo/internal/http/middleware"
	"vecturo/internal/modules/match"
	"vecturo/internal/modules/ride"
	"vecturo/internal/types"
)

type RideHandler struct {
	rides *ride.Service
	match *match.Service
}

func NewRideHandler(rides *ride.Service, matchSvc *match.Service) *RideHandler {
	return &RideHandler{rides: rides, match: matchSvc}
}

type placeReq struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	PlaceID string  `json:"placeId" binding:"required"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type createRideReq struct {
	Pickup         placeReq `json:"pickup" binding:"required"`
	Destination    placeReq `json:"destination" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	TimeRangeStart string   `json:"timeRangeStart" binding:"required"`
	TimeRangeEnd   string   `json:"timeRangeEnd" binding:"required"`
	Passengers     int      `json:"passengers" binding:"required,min=1"`
}

func (h *RideHandler) Create(c *gin.Context) {
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	r, err := h.rides.Create(c.Request.Context(), ride.CreateCommand{
		UserID:         middleware.CallerUID(c),
		Pickup:         toPlace(req.Pickup),
		Destination:    toPlace(req.Destination),
		Date:           req.Date,
		TimeRangeStart: req.TimeRangeStart,
		TimeRangeEnd:   req.TimeRangeEnd,
		Passengers:     req.Passengers,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toRideView(r))
}

func (h *RideHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	r, peer, err := h.rides.Get(c.Request.Context(), types.ID(id), middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	resp := gin.H{"ride": toRideView(r)}
	if peer != nil {
		resp["matchedRide"] = toRideView(peer)
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *RideHandler) ListMine(c *gin.Context) {
	rides, err := h.rides.ListForUser(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	views := make([]rideView, 0, len(rides))
	for _, r := range rides {
		views = append(views, toRideView(r))
	}
	writeJSON(c, http.StatusOK, gin.H{"rides": views})
}

func (h *RideHandler) RequestMatch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	res, err := h.match.RequestMatch(c.Request.Context(), types.ID(id), middleware.CallerUID(c))
	if errors.Is(err, match.ErrNoMatch) {
		writeJSON(c, http.StatusOK, gin.H{"matched": false})
		return
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"matched":     true,
		"ride":        toRideView(res.Ride),
		"matchedRide": toRideView(res.Counterpart),
		"overlap":     res.Overlap,
	})
}

type placeView struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	PlaceID string  `json:"placeId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type rideView struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Passengers       int        `json:"passengers"`
	Pickup           placeView  `json:"pickup"`
	Destination      placeView  `json:"destination"`
	Date             string     `json:"date"`
	TimeRangeStart   string     `json:"timeRangeStart"`
	TimeRangeEnd     string     `json:"timeRangeEnd"`
	IsMatched        bool       `json:"isMatched"`
	MatchedRideID    *string    `json:"matchedRideId,omitempty"`
	MatchRequestedAt *time.Time `json:"matchRequestedAt,omitempty"`
	StartingPoint    *placeView `json:"startingPoint,omitempty"`
	EndingPoint      *placeView `json:"endingPoint,omitempty"`
	TotalPassengers  *int       `json:"totalPassengers,omitempty"`
	MatchedUserPhone *string    `json:"matchedUserPhone,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func toPlace(p placeReq) types.Place {
	return types.Place{
		Name:     p.Name,
		Address:  p.Address,
		PlaceID:  p.PlaceID,
		Location: types.Point{Lat: p.Lat, Lng: p.Lng},
	}
}

func toPlaceView(p types.Place) placeView {
	return placeView{
		Name:    p.Name,
		Address: p.Address,
		PlaceID: p.PlaceID,
		Lat:     p.Location.Lat,
		Lng:     p.Location.Lng,
	}
}

func toRideView(r *ride.Ride) rideView {
	v := rideView{
		ID:               string(r.ID),
		UserID:           r.UserID,
		Passengers:       r.Passengers,
		Pickup:           toPlaceView(r.Pickup),
		Destination:      toPlaceView(r.Destination),
		Date:             r.Date,
		TimeRangeStart:   r.TimeRangeStart,
		TimeRangeEnd:     r.TimeRangeEnd,
		IsMatched:        r.IsMatched,
		MatchRequestedAt: r.MatchRequestedAt,
		TotalPassengers:  r.TotalPassengers,
		MatchedUserPhone: r.MatchedUserPhone,
		CreatedAt:        r.CreatedAt,
	}
	if r.MatchedRideID != nil {
		id := string(*r.MatchedRideID)
		v.MatchedRideID = &id
	}
	if r.StartingPoint != nil {
		sp := toPlaceView(*r.StartingPoint)
		v.StartingPoint = &sp
	}
	if r.EndingPoint != nil {
		ep := toPlaceView(*r.EndingPoint)
		v.EndingPoint = &ep
	}
	return v
}
