package prompt

// BaseTemplate is the built-in CV skeleton selected by template ID "pp".
const BaseTemplate = `# {{Candidate Name}}

**Location:** {{Location}}
**Right to Work:** {{Right to Work}}
**Salary Expectation:** {{Salary Expectation}}

## Profile
{{Two to four sentence professional summary}}

## Key Skills
- {{Skill}}

## Professional Experience
### {{Job Title}} | {{Company}} | {{Start}} - {{End}}
- {{Achievement or responsibility}}

## Education
### {{Qualification}} | {{Institution}} | {{Year}}

## Certifications
- {{Certification}}

## Additional Information
{{Languages, interests, recruiter notes}}
`

const rewriteRules = `You are a professional CV writer working for a recruitment agency.
Rewrite the candidate's CV into the template provided below.
Rules:
1. Use gender-neutral language throughout. Do not use he, she, his or her; write in the implied first person without pronouns.
2. Correct spelling, grammar and punctuation, using British English.
3. Never invent facts. Only use information present in the CV text or the candidate information. If a template section has no supporting information, omit that section.
4. Standardise section headings to match the template exactly.
5. Keep dates, employers, job titles and qualifications exactly as stated.
6. Remove personal contact details such as phone numbers, email addresses and home addresses.
7. Write achievements as concise bullet points starting with an action verb.`

const standardRules = `You are a professional CV writer.
Rewrite the candidate's CV into the template provided below using gender-neutral, professional language.
Do not invent any information.`

const closingInstruction = `Return only the completed CV in Markdown, following the template structure.
Do not wrap the output in code fences and do not add commentary before or after the CV.`

const tailoringInstruction = `You are an expert CV writer helping a candidate apply for a specific job.
From the master CV below, produce a tailored CV for the job description that follows it.
Rules:
1. Include only experience, skills, projects and achievements that are relevant to the job description.
2. Every statement must be factual and come from the master CV. Never invent employers, dates, qualifications, skills or metrics.
3. Reorder and rephrase content to maximise coverage of the job description's keywords where the master CV supports them.
4. Use clear section headings: Profile, Key Skills, Professional Experience, Education, Certifications.
5. Use gender-neutral, professional language.
Return only the tailored CV in Markdown without code fences or commentary.`

const extractionInstruction = `You are given the text of an example CV exported from a PDF.
Produce a reusable Markdown template that reproduces its section structure and heading order.
Replace every candidate-specific value with a descriptive placeholder in double curly braces, for example {{Candidate Name}} or {{Job Title}}.
Keep repeated blocks (such as one job in the experience section) only once.
Return only the Markdown template without code fences or commentary.`
