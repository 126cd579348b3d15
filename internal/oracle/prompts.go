package oracle

// intentPrompt splits an utterance into information units and key
// modifiers before planning. Output is JSON only.
const intentPrompt = `Analyze the user's smart home request.

User input: %s

Task 1: Split into separate information units
- One info = one intent, feeling, or fact
- Keep all details: what, how, when, why, where
- If "and" connects independent intents or requests, split them
  (e.g., "I'm hungry and tired" = two separate feelings)

Task 2: Extract key modifiers
Find words that specify HOW, WHEN, WHERE, HOW MUCH:
- Time: "gradually", "at 10pm", "for 30 minutes", "tomorrow"
- Location: "in the bedroom", "in the living room"
- Manner/degree: "very", "quietly", "brightly", "dim", "loud"
- Quantity/negation: "all", "half", "no music", "without"

Examples:

Input: "I want the lights to dim gradually starting at 10pm"
{"infos": ["I want the lights to dim gradually starting at 10pm"], "key_modifiers": ["gradually", "starting at 10pm", "dim"]}

Input: "I'm tired and need to relax"
{"infos": ["I'm tired", "need to relax"], "key_modifiers": []}

Input: "Turn on very bright lights, no music please"
{"infos": ["Turn on very bright lights", "no music please"], "key_modifiers": ["very bright", "no music"]}

Output ONLY valid JSON, no markdown code blocks, no explanations.
Output format: {"infos": ["info1", "info2"], "key_modifiers": ["modifier1", "modifier2"]}
`

// planPrompt turns an utterance plus hints into an ordered task queue.
const planPrompt = `You are the task planner for a smart home system.

User input: %[1]s

Reference: Infos = %[2]s, Key modifiers = %[3]s (use as reference, but trust the original user input if they conflict)

Your responsibility is to identify the user's main goal and assign it to the most appropriate device as a high-level task.

Rules:
1. Assign each goal to ONE primary device
2. Describe WHAT needs to be done, PRESERVING ALL KEY DETAILS from the user's request
   - Time references: "today", "tonight", "next Monday", "tomorrow"
   - Quantities: "for 6 people", "quick", "large"
   - Constraints: "vegan", "easy", "under 30 minutes"
   - Locations: "near me", "in the bedroom"
3. DO NOT predict or specify collaboration between devices
4. Trust individual agents to determine if they need help from other devices

Available devices and their capabilities:
%[4]s

Examples:

Input: "What's on my calendar today?"
{"task_queue": [{"device": "calendar", "action": "What's on my calendar today?"}]}

Input: "I need to wake up at tomorrow 7am"
{"task_queue": [{"device": "clock", "action": "set alarm at 7am for wake up"}]}

Input: "What dishes can I make based on the ingredients I have in the fridge?"
{"task_queue": [
    {"device": "fridge", "action": "what's in the fridge"},
    {"device": "search_engine", "action": "suggest recipes using ingredients you already have"}
]}

Input: "I want to make 'Fried Rice'"
NOTE: A specific dish name goes to the search engine, not the fridge; the fridge does not know recipes.
{"task_queue": [{"device": "search_engine", "action": "find a 'Fried Rice' recipe"}]}

Input: "play relaxing music for 30 minutes"
{"task_queue": [
    {"device": "audio_system", "action": "play relaxing music"},
    {"device": "clock", "action": "set timer for 30 minutes to stop music"}
]}

Input: "I'm tired and need relax"
{"task_queue": [
    {"device": "audio_system", "action": "play relaxing music"},
    {"device": "lighting", "action": "dim the lighting to help users relax"},
    {"device": "thermostat", "action": "set a comfortable temperature for users to relax better"}
]}

Input: "I'm going to bed soon"
{"task_queue": [
    {"device": "lighting", "action": "prepare turn off the light for sleep"},
    {"device": "thermostat", "action": "set comfortable temperature for sleep"},
    {"device": "audio_system", "action": "play calming sounds for sleep"}
]}

Format rules:
1. Every task MUST have both "device" and "action" fields
2. Output ONLY valid JSON, no markdown code blocks, no explanations
3. Include relevant details from the user input in the action description

Output format: {"task_queue": [{"device": "device_name", "action": "what to do with full context"}]}
`

// decidePrompt evaluates a fresh task: complete directly or request
// help from exactly one other device.
const decidePrompt = `You are a smart home %[1]s Agent.

Your capabilities:
%[2]s

Current task: %[3]s
Task history: %[4]s which tells you what other devices already did

Important: Check the task history first before requesting collaboration
1. Review the task history carefully
2. Check if another agent has already provided the information you need
3. Only request collaboration if the required information is genuinely NOT in the history

Decide: Can you complete this independently with your capabilities and the task history?
If YES: Complete the task directly without asking the user
If NO: Identify what you need and request help from the appropriate agent

Don't ask the user for clarification. Make reasonable assumptions when needed.

Other agents available for collaboration:
%[5]s

%[6]s

Output ONLY pure JSON.
Output format: {"response": "your result" or "", "collaboration_request": {"target": "agent_name", "request": "what you need"} or {}}
`

// answerPrompt resolves an inbound collaboration request directly.
// Requesting further help is forbidden at this call site.
const answerPrompt = `You are a smart home %[1]s Agent.

Your capabilities:
%[2]s

You received a collaboration request from the %[3]s agent.
Request: %[4]s

Provide the requested information directly. Simulate a reasonable result.

Don't ask the user for clarification or request help from other agents.
Don't ask the user for choices or preferences.

Output only JSON.
Output format: {"response": "your response"}
`

// resumePrompt finalizes a suspended task with the collaborator's
// answer. A resumed task always completes.
const resumePrompt = `You are a smart home %[1]s Agent completing a task with collaboration information.

Your capabilities:
%[2]s

Original task: %[3]s
Task history (what happened before this): %[4]s
Response from %[5]s: %[6]s

Now complete the task using this information without asking the user. Simulate the operation.

Don't ask the user for clarification or request help from other agents.
Don't ask the user for choices or preferences.

Output only JSON.
Output format: {"response": "task completion message"}
`
