package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/bde-apps/event-booking-api/internal/config"
	"github.com/bde-apps/event-booking-api/internal/models"
)

// DiscordNotifier posts booking updates to the organization's Discord
// channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
	}, nil
}

func (n *DiscordNotifier) NotifyReservation(user models.User, event models.Event, reservation models.Reservation, action Action) error {
	status := "booked a seat for"
	switch action {
	case ReservationUpdated:
		status = "updated their reservation for"
	case ReservationCancelled:
		status = "cancelled their reservation for 😢"
	}

	busStr := ""
	if reservation.OutboundSlotID != nil {
		busStr += " 🚌 outbound"
	}
	if reservation.ReturnSlotID != nil {
		busStr += " 🚌 return"
	}

	message := fmt.Sprintf("🎟️ **Booking Update**\n**User:** %s %s\n**Status:** %s %s (%s)%s",
		user.FirstName,
		user.LastName,
		status,
		event.Title,
		event.Date.Format("2006-01-02"),
		busStr,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	return err
}
