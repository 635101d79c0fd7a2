package http

import (
	"net/http"

	"metalya/internal/usecase"
	"metalya/pkg/logger"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	newsletterUseCase usecase.NewsletterUseCase
	logger            *logger.Logger
}

func NewNewsletterHandler(newsletterUseCase usecase.NewsletterUseCase, logger *logger.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterUseCase: newsletterUseCase,
		logger:            logger,
	}
}

type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe godoc
// @Summary      Subscribe to the newsletter
// @Description  Register an email address. Re-subscribing a deactivated address reactivates it.
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        request body SubscribeRequest true "Email address"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscriber, err := h.newsletterUseCase.Subscribe(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscriber": subscriber})
}

// Unsubscribe godoc
// @Summary      Unsubscribe from the newsletter
// @Description  Deactivate an email address; it stops receiving blasts immediately.
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        request body SubscribeRequest true "Email address"
// @Success      200  {object}  map[string]string
// @Router       /newsletter/unsubscribe [post]
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.newsletterUseCase.Unsubscribe(req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}

// ListSubscribers godoc
// @Summary      List active subscribers
// @Description  Admin view of the active subscriber list
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /admin/newsletter/subscribers [get]
func (h *NewsletterHandler) ListSubscribers(c *gin.Context) {
	subscribers, err := h.newsletterUseCase.ListSubscribers(callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers, "count": len(subscribers)})
}

type CampaignRequest struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreateCampaign godoc
// @Summary      Create a campaign draft
// @Description  Store a newsletter draft for later editing and sending
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CampaignRequest true "Campaign content"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /admin/newsletter/campaigns [post]
func (h *NewsletterHandler) CreateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.newsletterUseCase.CreateCampaign(c.GetString("user_id"), callerRole(c), req.Subject, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"campaign": campaign})
}

// GetCampaign godoc
// @Summary      Get a campaign draft
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Campaign ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /admin/newsletter/campaigns/{id} [get]
func (h *NewsletterHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.newsletterUseCase.GetCampaign(c.Param("id"), c.GetString("user_id"), callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// ListCampaigns godoc
// @Summary      List campaigns
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /admin/newsletter/campaigns [get]
func (h *NewsletterHandler) ListCampaigns(c *gin.Context) {
	limit, offset := pagination(c)

	campaigns, err := h.newsletterUseCase.ListCampaigns(callerRole(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns, "count": len(campaigns), "offset": offset})
}

type UpdateCampaignRequest struct {
	Subject *string `json:"subject"`
	Content *string `json:"content"`
}

// UpdateCampaign godoc
// @Summary      Update a campaign draft
// @Description  Edit a draft. SENT campaigns are immutable.
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Campaign ID"
// @Param        request body UpdateCampaignRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /admin/newsletter/campaigns/{id} [put]
func (h *NewsletterHandler) UpdateCampaign(c *gin.Context) {
	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.newsletterUseCase.UpdateCampaign(c.Param("id"), c.GetString("user_id"), callerRole(c), req.Subject, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// DeleteCampaign godoc
// @Summary      Delete a campaign draft
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Campaign ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/newsletter/campaigns/{id} [delete]
func (h *NewsletterHandler) DeleteCampaign(c *gin.Context) {
	if err := h.newsletterUseCase.DeleteCampaign(c.Param("id"), c.GetString("user_id"), callerRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

// SendCampaign godoc
// @Summary      Send a campaign
// @Description  Blast a stored campaign to all active subscribers and mark it SENT
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Campaign ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /admin/newsletter/campaigns/{id}/send [post]
func (h *NewsletterHandler) SendCampaign(c *gin.Context) {
	result, err := h.newsletterUseCase.SendCampaign(c.Param("id"), c.GetString("user_id"), callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Blast godoc
// @Summary      Send an ad-hoc blast
// @Description  Send a one-off newsletter to all active subscribers without storing a campaign
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CampaignRequest true "Newsletter content"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/newsletter/blast [post]
func (h *NewsletterHandler) Blast(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.newsletterUseCase.Blast(callerRole(c), req.Subject, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
