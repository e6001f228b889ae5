package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khasm-app/khasm/internal/authorization"
	favoritedomain "github.com/khasm-app/khasm/internal/favorite/domain"
	ledgerdomain "github.com/khasm-app/khasm/internal/ledger/domain"
	subscriptiondomain "github.com/khasm-app/khasm/internal/subscription/domain"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

type checkAllowanceRequest struct {
	StoreID        string `form:"store_id" binding:"required"`
	SubscriptionID string `form:"subscription_id" binding:"required"`
}

type redeemRequest struct {
	StoreID        string `json:"store_id" binding:"required"`
	SubscriptionID string `json:"subscription_id" binding:"required"`
}

type toggleFavoriteRequest struct {
	StoreID string `json:"store_id" binding:"required"`
}

// GetCardData returns the discount card of a user: the account, the most
// recent subscription and whether it has expired. Customers may only read
// their own card.
func (s *Server) GetCardData(c *gin.Context) {
	userID := c.Param("userId")
	if c.GetString(contextKeyRole) != authorization.RoleAdmin && userID != c.GetString(contextKeyUserID) {
		AbortWithError(c, ErrForbidden)
		return
	}

	user, err := s.userSvc.GetByID(c.Request.Context(), userdomain.GetUserRequest{ID: userID})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var current *subscriptiondomain.Subscription
	expired := true
	subscription, err := s.subscriptionSvc.CurrentByUser(c.Request.Context(), userID)
	switch {
	case err == nil:
		current = &subscription
		expired = subscription.IsExpired(s.clk.Now())
	case errors.Is(err, subscriptiondomain.ErrNoSubscription):
		// No subscription yet: the card renders without one.
	default:
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordCardView(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user":         user,
		"subscription": current,
		"expired":      expired,
	}})
}

func (s *Server) GetStoresGroupedByPlace(c *gin.Context) {
	if groups, ok := s.storeGroups.Get(); ok {
		c.JSON(http.StatusOK, gin.H{"data": groups})
		return
	}

	groups, err := s.storeSvc.GroupedByPlace(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.storeGroups.Set(groups)

	c.JSON(http.StatusOK, gin.H{"data": groups})
}

func (s *Server) CheckAllowance(c *gin.Context) {
	var req checkAllowanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	allowance, err := s.ledgerSvc.CheckAllowance(c.Request.Context(), ledgerdomain.CheckAllowanceRequest{
		UserID:         c.GetString(contextKeyUserID),
		SubscriptionID: req.SubscriptionID,
		StoreID:        req.StoreID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": allowance})
}

// Redeem records a discount usage. A same-day repeat at the same store is
// a 200 response with success=false, not an error.
func (s *Server) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID := c.GetString(contextKeyUserID)

	lockToken, acquired, err := s.redeemLimiter.TryLockRedemption(c.Request.Context(), userID, req.StoreID)
	if err != nil {
		s.log.Warn("redemption lock unavailable", zap.Error(err))
	} else if !acquired {
		AbortWithError(c, ErrRateLimited)
		return
	} else {
		defer func() {
			if err := s.redeemLimiter.ReleaseRedemption(c.Request.Context(), userID, req.StoreID, lockToken); err != nil {
				s.log.Warn("release redemption lock", zap.Error(err))
			}
		}()
	}

	result, err := s.ledgerSvc.RecordUsage(c.Request.Context(), ledgerdomain.RecordUsageRequest{
		UserID:         userID,
		SubscriptionID: req.SubscriptionID,
		StoreID:        req.StoreID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ListUsageHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	records, err := s.ledgerSvc.ListByUser(c.Request.Context(), c.GetString(contextKeyUserID), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (s *Server) ListFavorites(c *gin.Context) {
	favorites, err := s.favoriteSvc.ListByUser(c.Request.Context(), c.GetString(contextKeyUserID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": favorites})
}

func (s *Server) ToggleFavorite(c *gin.Context) {
	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.favoriteSvc.Toggle(c.Request.Context(), favoritedomain.ToggleRequest{
		UserID:  c.GetString(contextKeyUserID),
		StoreID: req.StoreID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
