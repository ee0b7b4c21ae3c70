package recognition

// extractionPrompt asks the model for the structured contents of one scanned
// flight-report page. Field names must match entity.ReportDraft.
const extractionPrompt = `You are reading a scanned aircraft flight report (technical log page).
Extract its contents and answer with a single JSON object, no prose:

{
  "aircraft": "aircraft registration or identifier",
  "date": "report date as printed",
  "flightNumber": "flight number as printed",
  "cityPair": "departure-arrival city pair, e.g. AMS-JFK",
  "rawText": "full transcription of the page",
  "faults": [
    {"time": "", "phase": "", "ataChapter": "", "description": ""}
  ],
  "failures": [
    {"time": "", "source": "", "identifier": "", "description": ""}
  ]
}

Keep faults and failures in the order they appear on the page. Use empty
strings for unreadable fields and empty arrays when a section is blank.`
