package consult

// System prompts per query type. The differential prompt asks for the
// structured JSON schema the card renderer understands; the rest ask for
// markdown.
var systemPrompts = map[QueryType]string{
	QueryDifferentialDiagnosis: `You are a clinical decision support assistant. Answer with a single JSON object using these fields: clinical_overview, critical_alert, differential_diagnoses (each with diagnosis, probability_percent, evidence, citations), immediate_workup, management, red_flags, additional_information_needed, sources_used. Base probabilities on the presented evidence and cite sources.`,
	QueryDrugInformation: `You are a clinical decision support assistant. Provide accurate drug information in markdown: indications, dosage, contraindications, interactions and adverse effects. Cite sources as [Source: ...].`,
	QueryClinicalGuidance: `You are a clinical decision support assistant. Provide evidence-based management guidance in markdown with clear headings and ordered steps. Cite sources as [Source: ...].`,
	QueryGeneral: `You are a helpful clinical decision support assistant. Provide accurate, evidence-based answers in markdown and cite sources where possible.`,
}

// SystemPrompt returns the system prompt for a query type.
func SystemPrompt(qt QueryType) string {
	if p, ok := systemPrompts[qt]; ok {
		return p
	}
	return systemPrompts[QueryGeneral]
}
