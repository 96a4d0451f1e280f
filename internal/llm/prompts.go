package llm

// System prompts. Keys named in the prompts match the JSON fields of the stored records.
const (
	PromptHTMLToText = "Extract these html into meaningfull text"

	PromptClassify = `You are given the text of a web page. Decide which category it belongs to:
job, scholarship, blog, news, technical or other. Extract the relevant information and answer
with a single JSON object of the form {"type": "<category>", "data": {...}} and nothing else.

job keys: company_title, job_position, job_location, job_type (contract, full time, part time),
workplace (remote, on-site, hybrid), due_date (YYYY-MM-DD), tech_stack (array), responsibilities
(array), professional_experience (years, number), requirements (array), additional_skills (array),
company_culture.

scholarship keys: title, organization, amount, deadline (YYYY-MM-DD), eligibility (array),
requirements (array), field_of_study (array), degree_level (array), country, link, additional_info (object).

blog keys: title, author, publication_date (YYYY-MM-DD), summary, key_points (array),
topics_covered (array), target_audience, tags (array), sentiment (positive, negative, neutral),
complexity (basic, intermediate, advanced), readability_score (0-100).

news keys: the blog keys plus category, region and is_breaking (boolean).

technical keys: title, author, publication_date (YYYY-MM-DD), technology, complexity_level
(beginner, intermediate, advanced), code_snippets (array), prerequisites (array), target_audience,
tags (array), sentiment (positive, negative, neutral), content_type, readability_score (0-100).

other keys: title, content_type, summary, key_points (array), topics_covered (array), tags (array),
content_details (object with anything else worth keeping).`

	PromptAnalyzeJob = `Extract the job posting in the following text. Answer with one JSON object using
the keys company_title, job_position, job_location, job_type (contract, full time, part time),
workplace (remote, on-site, hybrid), due_date (YYYY-MM-DD), tech_stack (array), responsibilities
(array), professional_experience (years, number), requirements (array), additional_skills (array)
and company_culture. Leave out keys the text does not mention.`

	PromptSummarize = `Summarize the following text. Answer with one JSON object with the keys
summary (string), key_points (array of strings) and word_count (object with integer keys original
and summary). Answer with the JSON object only.`

	PromptSummaryHTML = "Summarize the following long blog post into a quick overview that captures all the main points and subjects discussed. The summary should be comprehensive yet concise, allowing a blog reader to quickly grasp the content. Keep the summary between 300 and 500 characters. Only Generate HTML for the content. Don't response with normal text just the html snippet nothing else"

	PromptOverviewHTML = "Generate a detailed summary of the following long blog post. The summary should provide comprehensive coverage of all the main points and subjects discussed, offering readers a thorough understanding of the content. Aim for a length of around 800 to 1000 characters. Only Generate HTML for the content. Don't response with normal text just the html snippet nothing else"
)
