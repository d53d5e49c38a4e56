package llm

// Prompts for the two vision extraction calls. Both ask for a bare JSON
// payload; the extract package tolerates surrounding prose anyway.

// ScanSystemPrompt frames the model as a bookshelf analyzer for the
// book-list extraction call.
const ScanSystemPrompt = `You are a bookshelf analyzer. You examine photos of bookshelves and identify every book visible by its spine or cover. You answer only with JSON.`

// ScanUserPrompt specifies the exact record schema plus the sentinel error
// object used to signal that nothing was detected.
const ScanUserPrompt = `Identify every book visible in this image. Respond with a JSON array where each element is an object with the fields "title", "author", "isbn", "genre", "year" and "page_count". Use null for any field you cannot determine. Do not include any text outside the JSON array. If no books are visible in the image, respond with exactly: [{"error": "No books detected"}]`

// TitlesSystemPrompt frames the title-only extraction call.
const TitlesSystemPrompt = `You are a bookshelf analyzer. You examine photos of bookshelves and read book titles from spines and covers. You answer only with JSON.`

// TitlesUserPrompt asks for a flat array of title strings, preserving the
// shelf order.
const TitlesUserPrompt = `List the title of every book visible in this image, in the order they appear. Respond with a JSON array of strings containing only the titles. Do not include any text outside the JSON array. If no books are visible, respond with exactly: [{"error": "No books detected"}]`
