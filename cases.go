package main

import (
	"fmt"
	"strings"
)

// PatientCase describes one simulated triage scenario. The hot clues and
// scoring rule are injected into the simulation prompt and never sent to
// the browser.
type PatientCase struct {
	ID             string
	Name           string
	Age            int
	Sex            string
	ESILevel       int
	ChiefComplaint string
	InitialLine    string
	HotClues       string
	ScoringRule    string
}

const basePromptTemplate = `
You are a high-fidelity patient simulation for a medical triage training system.
Your name is %s and your profile is an **ESI Level %d** case.
Your chief complaint is: %s.

**Triage Instructions:**
1. **Be Conversational:** Respond naturally, reflecting your age, anxiety, and symptoms.
2. **Be Truthful:** Only provide information the student asks for, based on your profile.
3. **Do NOT** volunteer the diagnosis, ESI level, or scoring information.
4. **Hot Clues (Student earns points):** %s.
5. **Cold Clues (Student loses points/wastes time):** Asking irrelevant questions or ordering unnecessary tests.

**Scoring Rule for the AI:** %s

**CRITICAL OUTPUT RULE:** After your full conversational text response, you MUST append a hidden JSON object enclosed in the <SCORING_DATA> tags.
Example: [Patient's conversational text] <SCORING_DATA> {"score_update": 20, "hot_clue_status": "Found key symptom: Sudden onset."} </SCORING_DATA>

Begin the simulation. Introduce yourself and state your initial complaint.
`

// SimulationPrompt renders the full system prompt used to seed a new chat
// for this case.
func (c PatientCase) SimulationPrompt() string {
	return fmt.Sprintf(strings.TrimLeft(basePromptTemplate, "\n"),
		c.Name, c.ESILevel, c.ChiefComplaint, c.HotClues, c.ScoringRule)
}

var patientCases = []PatientCase{
	{
		ID:             "case_pregnant_abdominal_pain",
		Name:           "Angie Smith",
		Age:            26,
		Sex:            "Female",
		ESILevel:       2,
		ChiefComplaint: "3-day history of lower abdominal pain during 18-week pregnancy; new nausea, vomiting, fever, and urinary symptoms.",
		InitialLine:    "I've had lower belly pain for three days, and since last night I've been nauseous and vomiting. I feel feverish and weak. I'm 18 weeks pregnant.",
		HotClues: "'fever', 'dysuria or urinary frequency', 'incomplete bladder emptying', " +
			"'nausea/vomiting', 'CVA tenderness', 'pregnancy status', 'hydration status'.",
		ScoringRule: "Award +40 points for asking about fever pattern, urinary symptoms, vomiting severity, " +
			"or flank/CVA tenderness. " +
			"Award +30 points for confirming pregnancy complications (vaginal bleeding, fetal movement, OB history). " +
			"Deduct -20 points for ignoring red flags like high fever, tachycardia, dehydration, or flank pain.",
	},
	{
		ID:             "case_leg_erythema_pain",
		Name:           "Tyler James",
		Age:            62,
		Sex:            "Male",
		ESILevel:       2,
		ChiefComplaint: "Progressively worsening pain and redness of the right lower leg for 2 days.",
		InitialLine: "My right leg started hurting two days ago and it's gotten worse. " +
			"A few hours ago I started to feel sick all over—aches, chills. " +
			"The red area on my leg is getting bigger.",
		HotClues: "'fever', 'rapid progression of redness', 'erythema borders', 'lymphangitic streaking', " +
			"'leg swelling asymmetry', 'recent saphenous vein harvest', 'diabetes history', " +
			"'pain out of proportion', 'crepitus', 'bullae'.",
		ScoringRule: "Award +40 points for asking about rate of progression, fever/chills, prior skin breaks, " +
			"or history of saphenous vein harvest. " +
			"Award +30 points for distinguishing cellulitis versus DVT (calf asymmetry, tenderness, risk factors). " +
			"Deduct -20 points for failing to evaluate for necrotizing soft tissue infection (pain severity, crepitus). " +
			"Deduct -15 points for ignoring cardiovascular or diabetes-related complications.",
	},
	{
		ID:             "case_adolescent_back_pain",
		Name:           "Alex Paul",
		Age:            12,
		Sex:            "Male",
		ESILevel:       3,
		ChiefComplaint: "Occasional mild upper-back pain and stiffness for ~1 year.",
		InitialLine:    "Sometimes my upper back hurts and feels stiff, especially in the morning, but mostly I'm fine.",
		HotClues: "'pain onset during growth', 'shoulder asymmetry', 'forward-bend rib hump', " +
			"'family history of scoliosis', 'neurologic symptoms (weakness, gait change)', 'night pain', " +
			"'rapid progression of curve'.",
		ScoringRule: "Award +30 points for asking about physical exam signs (scoliosis screening, Adam's forward-bend test), " +
			"or family history, or neurologic symptoms. " +
			"Award +20 points for ruling out red-flag symptoms (night pain, weight loss, bowel/bladder changes). " +
			"Deduct -15 points for focusing only on pain severity and ignoring structural assessment.",
	},
}

func findCase(id string) (PatientCase, bool) {
	for _, c := range patientCases {
		if c.ID == id {
			return c, true
		}
	}
	return PatientCase{}, false
}

const complaintDisplayLimit = 30

// truncateComplaint shortens a chief complaint for the case picker on the
// entry page.
func truncateComplaint(s string) string {
	if len(s) > complaintDisplayLimit {
		return s[:complaintDisplayLimit] + "..."
	}
	return s
}
