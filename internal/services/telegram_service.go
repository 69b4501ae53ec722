package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// OrderNotification contains checkout data for the admin notification.
type OrderNotification struct {
	Username     string
	OrderNumber  int
	ItemCount    int
	DiscountCode string
	Address      string
	Phone        string
	PaymentRef   string
}

// NotifyNewOrder sends a notification about a new checkout to the admin chat.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	discount := order.DiscountCode
	if discount == "" {
		discount = "—"
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER!</b>
<b>📋 Order:</b> #%d
<b>👤 Customer:</b> %s
<b>📦 Items:</b> %d
<b>🎟 Discount:</b> %s
<b>📍 Address:</b> %s
<b>📞 Phone:</b> %s
<b>💳 bKash:</b> %s
━━━━━━━━━━━━━━━━━━`,
		order.OrderNumber,
		order.Username,
		order.ItemCount,
		discount,
		order.Address,
		order.Phone,
		order.PaymentRef,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
