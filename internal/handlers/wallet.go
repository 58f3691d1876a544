package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"ridepay/internal/models"
	"ridepay/internal/services/paymob"
	"ridepay/internal/services/wallet"
	"ridepay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WalletHandler struct {
	walletService wallet.Service
	gateway       paymob.Gateway
}

func NewWalletHandler(walletService wallet.Service, gateway paymob.Gateway) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		gateway:       gateway,
	}
}

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to get wallet")
	}

	return utils.Success(c, fiber.Map{
		"wallet": w,
	})
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", wallet.DefaultHistoryLimit)
	offset := c.QueryInt("offset", 0)

	entries, err := h.walletService.GetTransactions(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to get transactions")
	}

	return utils.Success(c, fiber.Map{
		"transactions": entries,
	})
}

func (h *WalletHandler) TopUpWithCard(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "amount must be greater than 0")
	}

	reference := uuid.NewString()
	ctx := c.Context()

	result, err := h.walletService.TopUpWithCard(ctx, claims.UserID, input.Amount, func() (*paymob.PaymentInitiationResult, error) {
		return h.gateway.InitiateCardPayment(ctx, paymob.CardPaymentRequest{
			Amount:    input.Amount,
			UserID:    claims.UserID,
			Reference: reference,
		})
	})
	if err != nil {
		return topUpError(c, err)
	}

	return utils.Success(c, result)
}

func (h *WalletHandler) TopUpWithMobileWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount       float64 `json:"amount"`
		WalletNumber string  `json:"wallet_number"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "amount must be greater than 0")
	}
	if input.WalletNumber == "" {
		return utils.BadRequest(c, "wallet number is required")
	}

	reference := uuid.NewString()
	ctx := c.Context()

	result, err := h.walletService.TopUpWithMobileWallet(ctx, claims.UserID, input.Amount, func() (*paymob.PaymentInitiationResult, error) {
		return h.gateway.InitiateWalletPayment(ctx, paymob.WalletPaymentRequest{
			Amount:       input.Amount,
			UserID:       claims.UserID,
			Reference:    reference,
			WalletNumber: input.WalletNumber,
		})
	})
	if err != nil {
		return topUpError(c, err)
	}

	return utils.Success(c, result)
}

// Callback receives Paymob's transaction webhook. It always answers 200: a
// non-2xx status would make the provider retry deliveries that this system
// has already decided to ignore, and verified outcomes are applied (or
// dropped) by the wallet service regardless of what we answer here.
func (h *WalletHandler) Callback(c *fiber.Ctx) error {
	signature := c.Query("hmac")

	var payload paymob.CallbackPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		log.Printf("failed to decode callback body: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	h.walletService.ProcessCallback(c.Context(), signature, &payload)
	return c.SendStatus(fiber.StatusOK)
}

func topUpError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrUserNotFound), errors.Is(err, wallet.ErrWalletNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrWalletLocked):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrInitiationFailed):
		return utils.BadRequest(c, "payment initiation failed")
	default:
		return utils.InternalError(c, "failed to record payment")
	}
}
