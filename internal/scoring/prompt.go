package scoring

import "fmt"

// systemPrompt is the fixed difficulty rubric sent with every scoring request.
// The worked examples anchor the scale so the oracle's numbers stay comparable
// across tasks.
const systemPrompt = `Evaluate the difficulty of tasks and assign a numerical score based on perceived complexity and time commitment.

Consider factors like required effort, complexity, skill level, and time required when scoring tasks.

# Steps

1. **Analyze the Task**: Determine the nature of the task, considering attributes like effort, complexity, skills required, and the time involved.
2. **Assign a Score**: Based on the analysis, assign a difficulty score from 0 to 100, where 0 is least difficult and 100 is most difficult.

# Output Format

Provide the output in JSON format, where the task is the key, and the difficulty score is the value, e.g., {"score": score}.

# Examples

- Input: "Finish computer science homework"
  - Output: {"score": 50}

- Input: "Go grocery shopping"
  - Output: {"score": 23}

- Input: "Go on a walk"
  - Output: {"score": 12}

- Input: "Learn a new programming language"
  - Output: {"score": 100}

- Input: "Learn how to use a new software"
  - Output: {"score": 73}

- Input: "Learn how to play the guitar"
  - Output: {"score": 98}

- Input: "Call grandma"
  - Output: {"score": 15}

- Input: "Put notebook in backpack"
  - Output: {"score": 3}

- Input: "Do the dishes"
  - Output: {"score": 10}

- Input: "Do the laundry"
  - Output: {"score": 17}

# Notes

Consider edge cases where some tasks may appear simple but require a significant time commitment due to external factors, such as waiting time or preparation. Adjust scores accordingly.`

func userPrompt(task string) string {
	return fmt.Sprintf("Analyze this task and give it a difficulty score from 1 to 100: %q. Respond with a JSON object containing only a 'score' key and its numeric value.", task)
}
