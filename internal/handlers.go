package internal

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/plateful/plateful/internal/model"
)

const businessIDKey = "businessID"

type Handlers struct {
	Service IService
	logger  *zap.SugaredLogger
}

func NewHandlers(Service IService, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, logger: logger}
}

func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	var in model.CreateOrderInput
	if err := c.BodyParser(&in); err != nil {
		h.logger.Errorf("Error on create order request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	order, err := h.Service.CreateOrder(c.Context(), businessID(c), in)
	if err != nil {
		h.logger.Errorf("Error on create order request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	order, err := h.Service.GetOrder(c.Context(), businessID(c), id)
	if err != nil {
		h.logger.Errorf("Error on get order request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) TransitionOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var in model.TransitionInput
	if err = c.BodyParser(&in); err != nil {
		h.logger.Errorf("Error on transition request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	order, err := h.Service.TransitionOrder(c.Context(), businessID(c), id, in.Status, in.Reason)
	if err != nil {
		h.logger.Errorf("Error on transition request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) UpdateOrderPayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var in model.PaymentInput
	if err = c.BodyParser(&in); err != nil {
		h.logger.Errorf("Error on payment update request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	order, err := h.Service.UpdateOrderPayment(c.Context(), businessID(c), id, in.PaymentStatus)
	if err != nil {
		h.logger.Errorf("Error on payment update request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handlers) GetOrderHistory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	history, err := h.Service.GetOrderHistory(c.Context(), businessID(c), id)
	if err != nil {
		h.logger.Errorf("Error on order history request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

func (h *Handlers) GetLoyaltyAccount(c *fiber.Ctx) error {
	customerID, err := paramID(c, "customerID")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	view, err := h.Service.GetLoyaltyAccount(c.Context(), businessID(c), customerID)
	if err != nil {
		h.logger.Errorf("Error on loyalty account request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *Handlers) RedeemPoints(c *fiber.Ctx) error {
	customerID, err := paramID(c, "customerID")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var in model.RedeemInput
	if err = c.BodyParser(&in); err != nil {
		h.logger.Errorf("Error on redeem request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	acc, err := h.Service.RedeemPoints(c.Context(), businessID(c), customerID, in)
	if err != nil {
		h.logger.Errorf("Error on redeem request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(acc)
}

func (h *Handlers) AdjustPoints(c *fiber.Ctx) error {
	customerID, err := paramID(c, "customerID")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var in model.AdjustInput
	if err = c.BodyParser(&in); err != nil {
		h.logger.Errorf("Error on adjust request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	acc, err := h.Service.AdjustPoints(c.Context(), businessID(c), customerID, in)
	if err != nil {
		h.logger.Errorf("Error on adjust request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(acc)
}

func (h *Handlers) GetLoyaltySettings(c *fiber.Ctx) error {
	settings, err := h.Service.GetLoyaltySettings(c.Context(), businessID(c))
	if err != nil {
		h.logger.Errorf("Error on loyalty settings request: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(settings)
}

func (h *Handlers) UpdateLoyaltySettings(c *fiber.Ctx) error {
	var in model.LoyaltySettingsInput
	if err := c.BodyParser(&in); err != nil {
		h.logger.Errorf("Error on loyalty settings update: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	settings, err := h.Service.UpdateLoyaltySettings(c.Context(), businessID(c), in)
	if err != nil {
		h.logger.Errorf("Error on loyalty settings update: %s", err.Error())
		return failure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(settings)
}

// failure maps service errors onto HTTP statuses. Validation gets the
// detail in the body; everything else keeps the payload terse.
func failure(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if errors.Is(err, ErrNotFound) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if errors.Is(err, ErrInsufficientPoints) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}
	return c.SendStatus(fiber.StatusInternalServerError)
}

// AuthMiddleware verifies the platform-issued JWT and stashes the business
// scope for the handlers. Tokens arrive as a bearer header from services
// and as a cookie from the dashboard.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = c.Cookies("token")
		}
		if tokenString == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		bid, ok := claims["bid"].(float64)
		if !ok || bid <= 0 {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		c.Locals(businessIDKey, int64(bid))
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func businessID(c *fiber.Ctx) int64 {
	bid, _ := c.Locals(businessIDKey).(int64)
	return bid
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}
