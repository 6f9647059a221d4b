package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// DefaultBusinessProfile grounds every answer when no custom profile is
	// configured. It describes the catalog owner, not the current query.
	DefaultBusinessProfile = `You are a helpful assistant for BHFE, a provider of online CPE (Continuing Professional Education) and CE (Continuing Education) courses. We serve professionals including CFPs (Certified Financial Planners), CPAs (Certified Public Accountants), IRS enrolled agents, CDFAs (Certified Divorce Financial Analysts), IARs (Investment Advisor Representatives), and other financial professionals. We offer comprehensive course materials covering various topics in finance, tax, and professional development.`

	// ResponseInstructions is appended after the grounding blocks on every
	// assembled context.
	ResponseInstructions = `Instructions: Provide helpful, accurate information about the courses and business. When mentioning courses, ALWAYS include clickable links to website pages using markdown format like [Course Name](url). If you reference a specific course file, be sure to mention it. Be professional but friendly.`

	// Fallbacks surfaced to the end user instead of raw failures.
	NotConfiguredMessage  = "I apologize, but the chatbot is not properly configured. Please contact support."
	GenericErrorMessage   = "I apologize, but I encountered an error. Please try again."
	NonTextResponseNotice = "I received a response, but it was not in text format."
)

// CourseKeywords mark a message as a question about the catalog.
var CourseKeywords = []string{
	"course", "courses", "cpe", "ce", "training", "education",
	"learn", "teaching", "material", "content", "curriculum",
	"certification", "certificate", "credit", "credit hours",
	"topic", "topics", "subject", "subjects", "class", "classes",
	"workshop", "webinar", "seminar", "program", "programs",
}

// ProfessionalTitles are the designations of the professionals the catalog
// serves; a mention usually means a course question.
var ProfessionalTitles = []string{
	"cfp", "cpa", "irs", "enrolled agent", "cdfa", "iar",
	"financial planner", "accountant", "advisor",
}
