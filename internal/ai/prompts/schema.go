package prompts

import "google.golang.org/genai"

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: description,
	}
}

// AnalysisSchema requires every AnalysisResult field.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"jobTitleDetected": {
				Type:        genai.TypeString,
				Description: "The primary job title identified or the target role being analyzed",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A short executive summary or fit analysis",
			},
			"overallScore": {
				Type:        genai.TypeInteger,
				Description: "A score from 0-100 rating the resume quality or match",
				Minimum:     genai.Ptr(0.0),
				Maximum:     genai.Ptr(100.0),
			},
			"strengths":       stringList("List of strong points"),
			"missingKeywords": stringList("Keywords that are missing"),
			"improvements":    stringList("Specific actionable advice"),
		},
		Required:         []string{"jobTitleDetected", "summary", "overallScore", "strengths", "missingKeywords", "improvements"},
		PropertyOrdering: []string{"jobTitleDetected", "summary", "overallScore", "strengths", "missingKeywords", "improvements"},
	}
}

// ResumeSchema mirrors GeneratedResume, nested arrays included.
func ResumeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"fullName":               {Type: genai.TypeString},
			"professionalTitle":      {Type: genai.TypeString},
			"contactInfoPlaceholder": {Type: genai.TypeString},
			"summary":                {Type: genai.TypeString},
			"experience": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"role":         {Type: genai.TypeString},
						"company":      {Type: genai.TypeString},
						"duration":     {Type: genai.TypeString},
						"achievements": stringList(""),
					},
					Required: []string{"role", "company", "duration", "achievements"},
				},
			},
			"skills": stringList(""),
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"degree": {Type: genai.TypeString},
						"school": {Type: genai.TypeString},
						"year":   {Type: genai.TypeString},
					},
					Required: []string{"degree", "school", "year"},
				},
			},
		},
		Required:         []string{"fullName", "professionalTitle", "summary", "experience", "skills", "education"},
		PropertyOrdering: []string{"fullName", "professionalTitle", "contactInfoPlaceholder", "summary", "experience", "skills", "education"},
	}
}
