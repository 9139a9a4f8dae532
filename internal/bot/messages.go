package bot

import (
	"fmt"
	"time"

	"btc-signal-bot/internal/domain"
)

const (
	unauthorizedText  = "❌ Unauthorized access"
	notAvailableText  = "ℹ️ Market analysis is not available in chat mode.\nJust send me a message or a chart and I will ask the agent."
	agentFailedText   = "❌ Failed to get analysis from Foundry agent"
	noHistoryStore    = "📭 Alert history is not configured."
	noHistoryText     = "📭 No alerts yet."
	noConversationTxt = "📭 Conversation history is not configured."
	photoTooLargeText = "❌ Image too large (max 10 MB)"
	historyLimit      = 5
)

func helpText(v domain.Variant) string {
	switch v {
	case domain.VariantHybrid:
		return "🤖 *Enhanced Bitcoin Trading Bot*\n\n" +
			"Multi-factor analysis including:\n" +
			"• Fear & Greed Index\n" +
			"• Seasonal patterns\n" +
			"• USD Index analysis\n" +
			"• Market correlations\n" +
			"• Technical confluence\n\n" +
			"Commands:\n" +
			"/analyze - Full market analysis\n" +
			"/monitor - Auto monitoring\n" +
			"/stop - Stop monitoring\n" +
			"/status - Bot status\n" +
			"/history - Recent alerts"
	case domain.VariantAgent:
		return "🤖 Bitcoin Trading Bot Active\n\n" +
			"Commands:\n" +
			"/analyze - Get current market analysis\n" +
			"/monitor - Start automatic monitoring\n" +
			"/stop - Stop monitoring\n" +
			"/status - Bot status\n" +
			"/history - Recent alerts\n" +
			"/reset - Forget our conversation\n\n" +
			"You can also chat directly with the bot about Bitcoin markets!"
	case domain.VariantChat:
		return "🤖 Bitcoin Chat Bot Active\n\n" +
			"Send me any question about Bitcoin markets, or a chart screenshot to review.\n\n" +
			"Commands:\n" +
			"/reset - Forget our conversation"
	default:
		return "🤖 *Simple Bitcoin Trading Bot*\n\n" +
			"Uses Fear & Greed Index for contrarian signals\n\n" +
			"Commands:\n" +
			"/analyze - Get current analysis\n" +
			"/monitor - Start auto monitoring\n" +
			"/stop - Stop monitoring\n" +
			"/status - Bot status\n" +
			"/history - Recent alerts"
	}
}

func progressText(v domain.Variant) string {
	switch v {
	case domain.VariantHybrid:
		return "🔍 Running comprehensive Bitcoin analysis..."
	case domain.VariantAgent:
		return "⏳ Running comprehensive Bitcoin analysis...\n\n" +
			"🤖 Querying Foundry agent\n" +
			"⚡ Estimated wait: 1-3 minutes\n" +
			"📊 Processing multiple data sources\n\n" +
			"Analyzing Fear & Greed, seasonals, DXY, correlations..."
	default:
		return "🔍 Analyzing Bitcoin..."
	}
}

const askProgressText = "⏳ Analyzing your request...\n\n" +
	"🤖 Connecting to Foundry agent\n" +
	"⚡ Estimated wait: 1-3 minutes\n" +
	"📊 Running comprehensive analysis\n\n" +
	"Please wait, quality analysis takes time..."

func monitorStartedText(v domain.Variant, interval time.Duration) string {
	switch v {
	case domain.VariantHybrid:
		return fmt.Sprintf("📡 Enhanced monitoring started! Checking every %s for signal changes.", every(interval))
	case domain.VariantAgent:
		return fmt.Sprintf("📡 Automatic monitoring started! Checking every %s.", every(interval))
	default:
		return fmt.Sprintf("📡 Monitoring started! Checking every %s for signal changes.", every(interval))
	}
}

func monitorStoppedText(v domain.Variant) string {
	switch v {
	case domain.VariantHybrid:
		return "🛑 Enhanced monitoring stopped"
	case domain.VariantAgent:
		return "🛑 Automatic monitoring stopped"
	default:
		return "🛑 Monitoring stopped"
	}
}

func statusText(status domain.MonitorStatus) string {
	title := "Bot Status"
	if status.Variant == domain.VariantHybrid {
		title = "Enhanced Bot Status"
	}
	state := "🔴 Inactive"
	if status.Running {
		state = "🟢 Active"
	}
	lastCheck := "never"
	if !status.LastCheck.IsZero() {
		lastCheck = status.LastCheck.UTC().Format("15:04:05") + " UTC"
	}

	text := fmt.Sprintf("🤖 *%s*\nMonitoring: %s\nCheck interval: %s\nLast check: %s",
		title, state, every(status.Interval), lastCheck)
	if status.LastRecommendation != "" {
		text += "\nLast signal: " + status.LastRecommendation
	}
	if status.LastError != "" {
		text += "\nLast error: " + status.LastError
	}
	return text
}

// StartupText is sent to the authorized user when the bot comes online.
func StartupText(v domain.Variant) string {
	switch v {
	case domain.VariantSimple:
		return "🤖 Simple Bitcoin Bot online!\nUse /start to begin."
	case domain.VariantHybrid:
		return "🤖 Enhanced Bitcoin Bot online!\nMulti-factor analysis ready.\nUse /start to begin."
	default:
		return "🤖 Bitcoin Trading Bot is online!\nUse /start to see available commands."
	}
}

func every(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	minutes := int(d.Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func historyText(alerts []domain.Alert) string {
	if len(alerts) == 0 {
		return noHistoryText
	}
	text := "📜 *Recent alerts*\n"
	for _, a := range alerts {
		text += fmt.Sprintf("\n• %s  %s", a.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"), a.Recommendation)
	}
	return text
}
