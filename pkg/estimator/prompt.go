package estimator

import (
	"fmt"
	"strings"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
)

const systemPrompt = "You are an expert football match analyst. Analyse the data provided and give a precise, well-argued prediction. Answer with a single JSON object and nothing else."

// BuildPrompt renders the analysis request for one fixture
func BuildPrompt(data *models.MatchData) string {
	home, away := data.Match.Home.Name, data.Match.Away.Name

	h2h := data.HeadToHead
	if strings.TrimSpace(h2h) == "" {
		h2h = "No head-to-head history available"
	}

	var sb strings.Builder
	sb.WriteString("Analyse this football match and provide a detailed prediction.\n\n")
	sb.WriteString(fmt.Sprintf("MATCH: %s vs %s\n\n", home, away))

	sb.WriteString("RECENT FORM (most recent first, W=win D=draw L=loss):\n")
	sb.WriteString(formLine(home, data.HomeForm))
	sb.WriteString(formLine(away, data.AwayForm))

	sb.WriteString("\nHEAD-TO-HEAD:\n")
	sb.WriteString(h2h)
	sb.WriteString("\n")

	sb.WriteString(`
INSTRUCTIONS:
Answer with a JSON object containing exactly these fields:
- predictedScoreHome: predicted home goals (integer)
- predictedScoreAway: predicted away goals (integer)
- expectedGoals: total expected goals (number, 1 decimal)
- winProbabilityHome: home win probability (0-100)
- winProbabilityAway: away win probability (0-100)
- drawProbability: draw probability (0-100)
- bttsProbability: probability that both teams score (0-100)
- confidence: one of "Low", "Medium", "High", "VeryHigh"
- reasoning: 2-3 sentences explaining the prediction

winProbabilityHome + winProbabilityAway + drawProbability must equal 100.
Base the prediction on the statistics provided.
`)
	return sb.String()
}

func formLine(name string, form models.TeamFormSummary) string {
	return fmt.Sprintf("- %s: %s (%.1f goals/match scored, %.1f conceded/match)\n",
		name, form.FormString(), form.GoalsScoredAvg, form.GoalsConcededAvg)
}
