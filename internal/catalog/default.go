package catalog

import "swag-quiz-service/internal/domain"

var defaultCatalog = MustNew(defaultQuestions)

// Default returns the built-in incident management catalog.
func Default() Catalog {
	return defaultCatalog
}

var defaultQuestions = []domain.Question{
	{
		ID:     1,
		Prompt: "What is the primary goal of an incident response process?",
		Options: []string{
			"To assign blame for the incident",
			"To restore service as quickly as possible",
			"To document everything that went wrong",
			"To prevent any future incidents",
		},
		CorrectOption: 1,
		Explanation:   "The primary goal is to restore service quickly. While documentation and prevention are important, the immediate priority during an incident is minimizing impact and restoring normal operations.",
	},
	{
		ID:     2,
		Prompt: "When should a post-mortem be conducted after an incident?",
		Options: []string{
			"Only for customer-facing incidents",
			"Within 24-48 hours after resolution",
			"Only when requested by management",
			"After every incident, regardless of severity",
		},
		CorrectOption: 1,
		Explanation:   "Post-mortems should be conducted within 24-48 hours while details are fresh. This timeframe allows for immediate issues to be addressed while ensuring thorough analysis.",
	},
	{
		ID:     3,
		Prompt: "What is the recommended approach for on-call rotations?",
		Options: []string{
			"Have one person always on-call",
			"Rotate weekly with proper handoffs",
			"Only senior engineers should be on-call",
			"On-call is only needed during business hours",
		},
		CorrectOption: 1,
		Explanation:   "Weekly rotations with proper handoffs ensure knowledge sharing, prevent burnout, and maintain consistent coverage. This approach balances responsibility across the team.",
	},
	{
		ID:     4,
		Prompt: "Which severity level typically indicates a complete service outage affecting all users?",
		Options: []string{
			"SEV-3",
			"SEV-2",
			"SEV-1",
			"SEV-0",
		},
		CorrectOption: 2,
		Explanation:   "SEV-1 typically indicates a critical incident with complete service outage or major functionality loss affecting all users. SEV-0 is sometimes used for catastrophic failures.",
	},
	{
		ID:     5,
		Prompt: "What is the role of an Incident Commander during a major incident?",
		Options: []string{
			"Fix the technical issue directly",
			"Coordinate response efforts and communication",
			"Document every action taken",
			"Escalate to senior management immediately",
		},
		CorrectOption: 1,
		Explanation:   "The Incident Commander coordinates the response, manages communication, and ensures the right people are involved. They don't necessarily fix the issue themselves but orchestrate the response.",
	},
	{
		ID:     6,
		Prompt: "How often should runbooks be reviewed and updated?",
		Options: []string{
			"Only when they fail during an incident",
			"Quarterly or after significant changes",
			"Annually during performance reviews",
			"Never - they should remain consistent",
		},
		CorrectOption: 1,
		Explanation:   "Runbooks should be reviewed quarterly or after significant system changes to ensure they remain accurate and effective. Regular updates prevent outdated procedures during critical incidents.",
	},
	{
		ID:     7,
		Prompt: "What is the best practice for incident communication with stakeholders?",
		Options: []string{
			"Wait until the incident is resolved to communicate",
			"Send updates only when asked",
			"Provide regular updates even if there's no new information",
			"Only communicate with technical teams",
		},
		CorrectOption: 2,
		Explanation:   "Regular updates, even to confirm the team is still investigating, maintain stakeholder confidence and reduce anxiety. Silence during incidents often causes more concern than the incident itself.",
	},
	{
		ID:     8,
		Prompt: "What should be included in a blameless post-mortem?",
		Options: []string{
			"Names of engineers who caused the issue",
			"Root cause analysis and timeline of events",
			"Performance reviews of involved team members",
			"Reasons why the incident was someone's fault",
		},
		CorrectOption: 1,
		Explanation:   "Blameless post-mortems focus on root cause analysis, timeline of events, and system improvements. The goal is learning and prevention, not assigning blame to individuals.",
	},
	{
		ID:     9,
		Prompt: "Which metric is most important for measuring incident response effectiveness?",
		Options: []string{
			"Number of incidents per month",
			"Mean Time To Recovery (MTTR)",
			"Lines of code changed",
			"Number of people involved",
		},
		CorrectOption: 1,
		Explanation:   "MTTR (Mean Time To Recovery) directly measures how quickly service is restored, which is the primary goal of incident response. It's a key indicator of response effectiveness.",
	},
	{
		ID:     10,
		Prompt: "What is the purpose of conducting incident response drills?",
		Options: []string{
			"To create more incidents for practice",
			"To test and improve response procedures",
			"To evaluate employee performance",
			"To satisfy compliance requirements only",
		},
		CorrectOption: 1,
		Explanation:   "Incident response drills help teams practice procedures, identify gaps, and improve response times in a controlled environment. They're essential for maintaining readiness.",
	},
	{
		ID:     11,
		Prompt: "When should you declare an incident?",
		Options: []string{
			"Only when customers complain",
			"When there's any deviation from normal operation that impacts users",
			"Only during business hours",
			"After trying to fix it yourself for 30 minutes",
		},
		CorrectOption: 1,
		Explanation:   "Incidents should be declared whenever there's a deviation from normal operation that impacts or could impact users. Early declaration enables faster resolution and proper tracking.",
	},
	{
		ID:     12,
		Prompt: "What is the primary benefit of automation in incident response?",
		Options: []string{
			"Replacing the need for on-call engineers",
			"Reducing human error and response time",
			"Eliminating all incidents",
			"Avoiding post-mortems",
		},
		CorrectOption: 1,
		Explanation:   "Automation reduces human error and response time by handling routine tasks, allowing engineers to focus on complex problem-solving. It complements, not replaces, human expertise.",
	},
}
