package handler

import (
	"fmt"
	"net/http"

	"payfesa/internal/middleware"
	"payfesa/internal/models"
	"payfesa/internal/repository"
	"payfesa/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MB

type UploadHandler struct {
	cloud     cloudinary.Client
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditLogRepository
}

func NewUploadHandler(cloud cloudinary.Client, userRepo *repository.UserRepository, auditRepo *repository.AuditLogRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, userRepo: userRepo, auditRepo: auditRepo}
}

// Avatar uploads a profile picture and stores its optimized URL.
func (h *UploadHandler) Avatar(c *gin.Context) {
	h.uploadTo(c, "avatars", func(u *models.User, url string) {
		u.AvatarURL = url
	})
}

// KYCDocument uploads an identity document for admin review. Uploading resets
// any previous verification until an admin re-approves.
func (h *UploadHandler) KYCDocument(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if h.uploadTo(c, "kyc", func(u *models.User, url string) {
		u.KYCDocumentURL = url
		u.KYCVerified = false
	}) {
		_ = h.auditRepo.Create(&models.AuditLog{
			UserID:   &userID,
			Action:   "kyc_document_uploaded",
			Resource: "user",
			IP:       c.ClientIP(),
		})
	}
}

func (h *UploadHandler) uploadTo(c *gin.Context, folder string, apply func(*models.User, string)) bool {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return false
	}
	userID := middleware.GetUserID(c)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return false
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return false
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return false
	}
	defer f.Close()

	publicID := fmt.Sprintf("user_%d_%s", userID, uuid.New().String()[:8])
	url, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return false
	}

	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return false
	}
	apply(u, url)
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return false
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "thumbnail_url": thumb})
	return true
}
