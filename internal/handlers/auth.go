package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"artezaar-backend/internal/config"
	"artezaar-backend/internal/otp"
	"artezaar-backend/internal/utils"
)

type AuthHandler struct {
	Issuer   *otp.Issuer
	Verifier *otp.Verifier
	Cfg      config.Config
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func NewAuthHandler(issuer *otp.Issuer, verifier *otp.Verifier, cfg config.Config) *AuthHandler {
	return &AuthHandler{Issuer: issuer, Verifier: verifier, Cfg: cfg}
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Valid email is required"})
		return
	}

	_, err := h.Issuer.Issue(c.Request.Context(), req.Email)
	if err != nil {
		var storeErr *otp.StorageError
		var sendErr *otp.DeliveryError
		switch {
		case errors.Is(err, otp.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Valid email is required"})
		case errors.As(err, &storeErr):
			log.Printf("otp insert error: %v", storeErr)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "DB insert error", "error": storeErr.Unwrap().Error()})
		case errors.As(err, &sendErr):
			// The code is already stored and remains verifiable.
			log.Printf("otp delivery error: %v", sendErr)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error", "error": sendErr.Unwrap().Error()})
		default:
			log.Printf("otp issue error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}

	err := h.Verifier.Verify(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		var storeErr *otp.StorageError
		switch {
		case errors.Is(err, otp.ErrFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		case errors.Is(err, otp.ErrMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid OTP"})
		case errors.Is(err, otp.ErrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "OTP has expired"})
		case errors.Is(err, otp.ErrNoRecord):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		case errors.As(err, &storeErr):
			// A failed lookup is indistinguishable from no record for the caller.
			log.Printf("otp lookup error: %v", storeErr)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		default:
			log.Printf("otp verify error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error", "error": err.Error()})
		}
		return
	}

	token, err := utils.GenerateAccessToken(req.Email, h.Cfg.JwtSecret, h.Cfg.JwtAccessMinutes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully", "token": token})
}
