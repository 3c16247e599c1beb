package narrative

import "strings"

var justificationFixture = strings.Join([]string{
	"1. Trait-by-Trait Justification",
	"- **Agreeableness (58.0):** Works collaboratively and seeks consensus.",
	"- **Conscientiousness (84.0):** Plans ahead and follows through on commitments.",
	"- **Extraversion (46.0):** Energised by small groups rather than crowds.",
	"- **Neuroticism (30.0):** Stays calm under deadline pressure.",
	"- **Openness (70.0):** Curious learner who enjoys unfamiliar problems.",
	"",
	"2. Academic Performance Justification",
	"Strong planning habits predict steady study routines.",
	"Curiosity supports deeper engagement with coursework.",
	"",
	"3. Job Performance Justification",
	"Reliability and calm make for dependable delivery.",
	"Moderate sociability fits collaborative teams.",
	"",
	"4. Plain-English Summary",
	"A dependable, curious collaborator.",
}, "\n")

const analysisFixture = `### 🧠 The Executive Summary
The Compassionate Architect: organised, warm and quietly ambitious.

### ⚡ Key Strengths (Superpowers)
* **Reliability:** Delivers what was promised.
* **Curiosity:** Keeps learning outside the brief.
* **Composure**: Calm when plans change.

### ⚠️ Potential Blind Spots
May over-commit when colleagues ask for help.
Can delay decisions while gathering more data.

### 🚀 3 Tailored Growth Strategies
1.  **Delegate:** Hand off one recurring task each week.
2.  **Timebox:** Set a decision deadline before researching.
3.  Keep a short reflection journal.
`
