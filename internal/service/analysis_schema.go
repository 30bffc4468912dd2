package service

import "github.com/santhosh-tekuri/jsonschema/v5"

// analysisSchemaJSON and analysisExampleJSON describe the same output shape.
// The prompt builder embeds the example for the model to mirror and the
// response parser validates extracted replies against the schema, so the two
// cannot drift apart independently. Change them together.
const analysisSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "summary": {
      "type": "object",
      "properties": {
        "overallSummary": {"type": "string"},
        "studentPerformance": {"type": "string"},
        "discussionFocus": {"type": "array", "items": {"type": "string"}}
      }
    },
    "lecturerFeedbacks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "lecturer": {"type": "string"},
          "mainComments": {"type": "string"},
          "positivePoints": {"type": "array", "items": {"type": "string"}},
          "improvementPoints": {"type": "array", "items": {"type": "string"}},
          "rubricScores": {
            "type": "object",
            "additionalProperties": {"type": ["number", "null"]}
          }
        }
      }
    },
    "aiInsight": {
      "type": "object",
      "properties": {
        "analysis": {"type": "string"},
        "rubricAverages": {
          "type": "object",
          "additionalProperties": {"type": ["number", "null"]}
        },
        "toneAnalysis": {"type": "string"}
      }
    },
    "aiSuggestion": {
      "type": "object",
      "properties": {
        "forStudent": {"type": "string"},
        "forAdvisor": {"type": "string"},
        "forSystem": {"type": "string"}
      }
    }
  }
}`

const analysisExampleJSON = `{
  "summary": {
    "overallSummary": "One paragraph summarising the whole defense session.",
    "studentPerformance": "How the students performed while presenting and answering.",
    "discussionFocus": ["Main topic discussed", "Another recurring topic"]
  },
  "lecturerFeedbacks": [
    {
      "lecturer": "Lecturer name or label as heard in the transcript",
      "mainComments": "The evaluator's core comments.",
      "positivePoints": ["A strength the evaluator named"],
      "improvementPoints": ["A weakness the evaluator named"],
      "rubricScores": {"Presentation Skills": 8.5, "Technical Depth": null}
    }
  ],
  "aiInsight": {
    "analysis": "Cross-cutting observations about the session.",
    "rubricAverages": {"Presentation Skills": 8.5},
    "toneAnalysis": "Overall tone of the committee discussion."
  },
  "aiSuggestion": {
    "forStudent": "Advice for the defending students.",
    "forAdvisor": "Advice for the supervising advisor.",
    "forSystem": "Advice for programme administrators."
  }
}`

var analysisSchema = jsonschema.MustCompileString("analysis.schema.json", analysisSchemaJSON)
