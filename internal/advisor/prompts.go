package advisor

import (
	"fmt"
	"strings"

	"github.com/money-gurus/guru-server/internal/model"
)

const scorePromptTemplate = `You are a financial advisor AI.

Return ONLY valid JSON in this exact format, nothing else:

{
  "score": <number between 0 and 10>,
  "advice": [
    "Strength: <your strength observation>",
    "Risk: <your risk observation>",
    "Action: <your recommended action>",
    "Investment Strategy: <investment advice>",
    "Emergency Planning: <emergency fund advice>",
    "Lifestyle Tip: <lifestyle spending tip>"
  ]
}

Financial Data:
Income: %g
Recurring Expenses: %g
Leisure Spending: %g
Savings: %g
Emergency Fund: %g
Investments: %g

Rules:
- Return ONLY the JSON object above
- No markdown, no backticks, no extra text
- All 6 advice items must be present
- Score must be a number 0-10`

// ScorePrompt renders the score-evaluation prompt for one month of figures.
func ScorePrompt(p model.Portfolio) string {
	return fmt.Sprintf(scorePromptTemplate,
		p.Income, p.Recurring, p.Leisure, p.Savings, p.Emergency, p.Investment)
}

const chatPromptTemplate = `You are a certified Indian financial advisor.

User Financial Profile:
Income: ₹%g
Recurring Expenses: ₹%g
Leisure Spending: ₹%g
Savings: ₹%g
Emergency Fund: ₹%g
Investments: ₹%g

User Question:
%q

Give a clear, short, final answer. Do not ask questions. Use ₹ currency.`

// ChatPrompt renders the conversational-advice prompt.
func ChatPrompt(message string, p model.Portfolio) string {
	return fmt.Sprintf(chatPromptTemplate,
		p.Income, p.Recurring, p.Leisure, p.Savings, p.Emergency, p.Investment,
		message)
}

const goalPromptTemplate = `You are a financial planning AI. A user wants to achieve a financial goal and needs a concrete month-by-month savings plan.

User's current monthly finances:
- Income: %g
- Recurring Costs: %g
- Leisure Spending: %g
- Current Savings: %g
- Emergency Fund contribution: %g
- Investments: %g
- Current Guru Score: %d/10

User's Goal: %q
Timeframe: %d months

Analyse their current spending and create a realistic plan. Return ONLY valid JSON, no other text:

{
  "goalSummary": "one sentence summary of the goal",
  "feasibility": "Achievable" | "Challenging" | "Very Ambitious",
  "feasibilityReason": "brief explanation of why",
  "monthlyPlan": [
    {
      "month": 1,
      "targetSavings": <number>,
      "leisureBudget": <number>,
      "adjustments": "specific advice for this month in one sentence"
    }
  ],
  "totalProjected": <total savings across all months>,
  "keyChanges": ["change 1", "change 2", "change 3"],
  "warning": "any important caveat or null if none"
}

The monthlyPlan array must contain exactly %d entries, one per month.`

// GoalPrompt renders the goal-planning prompt.
func GoalPrompt(goal string, months int, p model.Portfolio) string {
	return fmt.Sprintf(goalPromptTemplate,
		p.Income, p.Recurring, p.Leisure, p.Savings, p.Emergency, p.Investment,
		p.Score, strings.TrimSpace(goal), months, months)
}
