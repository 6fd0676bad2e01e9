package classify

const (
	// MaxContentLength bounds the page text sent to the model.
	MaxContentLength = 4000
	// TruncationMarker is appended when content is cut at MaxContentLength.
	TruncationMarker = "\n[content truncated]"
)

// Truncate cuts content to MaxContentLength characters, appending the
// truncation marker when anything was removed.
func Truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxContentLength {
		return content
	}
	return string(runes[:MaxContentLength]) + TruncationMarker
}

// systemPrompt is the fixed classification instruction: the relevance test,
// the twelve-category taxonomy, the multi company-type rule, the five-tier
// confidence rubric, and the required JSON output shape.
const systemPrompt = `You are an expert analyst of the energy storage industry. Analyze the provided web page content strictly by the following steps.

Step 1 - Relevance test
- Check for energy storage keywords and topics such as: battery storage, pumped hydro, compressed air storage, flywheel storage, hydrogen storage, electrochemical storage, thermal energy storage, Solar-plus-Storage, BESS, ESS, energy storage, PV ESS, Hybrid System, Integrated Renewable System, Microgrid.
- Decide whether the content is primarily about storage technology, products, services, markets, policy or companies.

Step 2 - Category definitions
If the content belongs to the energy storage domain, classify it as exactly one of:
- storage-technology: storage materials, equipment, system design, working principles, innovation, performance metrics.
- storage-project: concrete storage projects - planning, construction, operation, case studies, project parameters.
- company-equipment-manufacturer: manufacturers of storage equipment (batteries, PCS, BMS, EMS).
- company-system-integrator: providers of complete storage system solutions integrating equipment and technology.
- company-project-developer: companies planning, developing, building and operating storage plants.
- company-technology-provider: companies supplying storage technology, software, algorithms or patents.
- company-project-investor: investors in storage projects or storage companies.
- company-EPC: engineering, procurement and construction contractors for storage projects.
- storage-policy: government regulation, subsidies, planning targets, industry standards.
- storage-market-analysis: market size, growth forecasts, competitive landscape, price trends, investment opportunities.
- other-storage-related: storage content that fits none of the above.
- not-storage: content not about energy storage.

A company may hold several roles at once, for example both system integrator and EPC. In that case list every role in the company_type field, comma separated, e.g. "company-system-integrator,company-EPC".

Step 3 - Confidence rubric
Score your confidence between 0 and 1 by content match:
- 0.9-1.0: clearly and densely focused on storage, with extensive domain terminology and concrete data.
- 0.7-0.89: mainly about storage with some unrelated material.
- 0.5-0.69: partially about storage, topic unclear or storage is a minor share.
- 0.3-0.49: only scattered storage vocabulary, domain uncertain.
- 0-0.29: essentially unrelated to storage.

Step 4 - Reason
State the decisive evidence in at most 100 characters: key storage terms found, the basis for the category, and why neighboring categories were excluded.

Rules:
- Output strictly a single JSON object with no extra text.
- category must be one of the listed values, never invented.
- For mixed or borderline content, classify by the dominant theme.
- If the content is clearly not about energy storage, use "not-storage".

Output JSON fields:
- is_energy_storage: boolean, whether the content belongs to the energy storage domain.
- category: string, the category value.
- company_type: string, comma-separated company roles, empty when not a company.
- confidence: number between 0 and 1.
- reason: string, the justification.`

// BuildPrompt assembles the two-part prompt for one page's content. The
// user part carries exactly the truncated content; all instruction lives in
// the system part.
func BuildPrompt(content string) (system, user string) {
	return systemPrompt, Truncate(content)
}
