package domain

import (
	"fmt"
	"strings"
	"time"
)

// Variant selects which flavour of the bot is running.
type Variant string

const (
	VariantSimple Variant = "simple"
	VariantHybrid Variant = "hybrid"
	VariantAgent  Variant = "agent"
	VariantChat   Variant = "chat"
)

var Variants = []Variant{VariantSimple, VariantHybrid, VariantAgent, VariantChat}

func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Variants {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// UsesAgent reports whether the variant talks to the hosted agent.
func (v Variant) UsesAgent() bool {
	return v == VariantAgent || v == VariantChat
}

// Analyzes reports whether the variant supports /analyze and monitoring.
func (v Variant) Analyzes() bool {
	return v != VariantChat
}

const (
	RecommendationStrongBuy  = "Strong BUY"
	RecommendationBuy        = "BUY"
	RecommendationHold       = "HOLD"
	RecommendationHoldSell   = "HOLD/SELL"
	RecommendationSell       = "SELL"
	RecommendationStrongSell = "Strong SELL"

	// RecommendationAnalysisComplete marks an agent reply that carried no JSON payload.
	RecommendationAnalysisComplete = "ANALYSIS_COMPLETE"
)

// IsBuy reports whether a recommendation string is on the buy side.
func IsBuy(recommendation string) bool {
	return strings.Contains(recommendation, "BUY")
}

// IsSell reports whether a recommendation string is on the sell side.
func IsSell(recommendation string) bool {
	return strings.Contains(recommendation, "SELL")
}

// Levels are the suggested entry, stop and target prices.
type Levels struct {
	Entry  float64 `json:"entry"`
	Stop   float64 `json:"stop"`
	Target float64 `json:"target"`
}

// AgentReport is the structured part of a Foundry agent reply. Values are kept
// as display strings because the agent is free to answer with numbers or text.
type AgentReport struct {
	Recommendation   string `json:"recommendation"`
	Reasoning        string `json:"reasoning,omitempty"`
	FearGreedCurrent string `json:"fear_greed_current,omitempty"`
	FearGreedClass   string `json:"fear_greed_classification,omitempty"`
	BullishFactors   string `json:"bullish_factors,omitempty"`
	BearishFactors   string `json:"bearish_factors,omitempty"`
	Confidence       string `json:"confidence,omitempty"`
	Entry            string `json:"entry,omitempty"`
	StopLoss         string `json:"stop_loss,omitempty"`
	Target           string `json:"target,omitempty"`
	Structured       bool   `json:"structured"`
	Raw              string `json:"raw,omitempty"`
}

// Analysis is the output of one analyzer run.
type Analysis struct {
	Variant        Variant       `json:"variant"`
	Recommendation string        `json:"recommendation"`
	Reasoning      string        `json:"reasoning,omitempty"`
	Emoji          string        `json:"emoji,omitempty"`
	Price          *float64      `json:"price,omitempty"`
	FearGreed      *FearGreed    `json:"fear_greed,omitempty"`
	Seasonal       *Seasonal     `json:"seasonal,omitempty"`
	Dollar         *DollarIndex  `json:"dxy,omitempty"`
	Correlation    *Correlations `json:"correlation,omitempty"`
	BullishFactors int           `json:"bullish_factors"`
	BearishFactors int           `json:"bearish_factors"`
	Confidence     int           `json:"confidence,omitempty"`
	Factors        []string      `json:"factors,omitempty"`
	Levels         *Levels       `json:"levels,omitempty"`
	Agent          *AgentReport  `json:"agent,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}

// Alert is a monitoring message that was pushed to the user.
type Alert struct {
	ID             int64     `json:"id"`
	Variant        Variant   `json:"variant"`
	ChatID         int64     `json:"chat_id"`
	Recommendation string    `json:"recommendation"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// Snapshot is the most recent analysis published for other processes to read.
type Snapshot struct {
	Analysis    *Analysis `json:"analysis"`
	Message     string    `json:"message"`
	PublishedAt time.Time `json:"published_at"`
}

// MonitorStatus describes the monitoring loop.
type MonitorStatus struct {
	Running            bool          `json:"running"`
	Variant            Variant       `json:"variant"`
	Interval           time.Duration `json:"interval"`
	LastCheck          time.Time     `json:"last_check,omitempty"`
	LastRecommendation string        `json:"last_recommendation,omitempty"`
	LastError          string        `json:"last_error,omitempty"`
	AlertsSent         int           `json:"alerts_sent"`
}

type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}
