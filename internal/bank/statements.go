package bank

// Statement texts keyed by id. The hundreds digit of an id is its construct
// band; pairIDs below reference this table so question content and the
// id-to-construct mapping cannot drift apart.
var statementTexts = map[int]string{
	102: "I get more satisfaction from a challenging mental task than an easy one.",
	103: "I like to analyze a problem from every angle before making a decision.",
	104: "I am drawn to tasks that require me to think deeply and concentrate.",
	105: "I would rather do something that requires a lot of thought than something that is simple.",

	201: "I enjoy listening to arguments that challenge my current point of view.",
	202: "I actively look for evidence that might contradict my existing beliefs.",
	203: "I think it is important to expose myself to opinions I strongly disagree with.",
	204: "I am willing to change my mind on an important issue when presented with a good argument.",
	205: "I consider critiques of my ideas as a valuable opportunity to improve them.",

	301: "When I find a topic interesting, I feel a strong desire to learn everything about it.",
	302: "The feeling of 'not knowing' something motivates me to find an answer.",
	303: "I love learning new things just for the sake of learning.",
	304: "If I hear a new term or concept, I'll often look it up immediately.",
	305: "I have a wide range of interests and am curious about many things.",

	401: "I am comfortable moving forward on a project even if all the details aren't finalized.",
	402: "I prefer jobs where my day-to-day tasks are varied and unpredictable.",
	403: "Unexpected changes to a plan don't typically fluster me.",
	404: "I can function well in situations where the rules are not clearly defined.",
	405: "I find it energizing to work on problems where the final outcome is not yet clear.",

	501: "I readily accept that my own beliefs could be wrong.",
	502: "I'm quick to admit when a task is beyond my current expertise.",
	503: "I am aware that my own knowledge is limited and incomplete.",
	504: "I am comfortable saying 'I don't know' in a professional setting.",
	505: "I can listen to criticism about my ideas without getting defensive.",

	601: "I am good at sensing what others are feeling, even if they don't say it.",
	602: "I'm good at staying calm under pressure.",
	603: "I'm often the person others come to for emotional support or advice.",
	604: "I find it easy to connect with people from different backgrounds.",
	605: "I am sensitive to the emotional needs of my colleagues.",

	701: "I like to understand the big picture before diving into the individual components.",
	702: "I often think about how small changes can impact the entire system.",
	703: "When planning, I think about the ripple effects of a decision.",
	704: "To solve a problem, I first try to understand its context and relationships.",
	705: "I naturally look for how different pieces of a project connect with each other.",

	801: "My first instinct with a new tool is to start playing with it to see how it works.",
	802: "I learn best by trying things out for myself.",
	803: "I enjoy taking things apart to understand how they work.",
	804: "I'd rather build a quick prototype than spend a long time on a theoretical design.",
	805: "I like to experiment with different approaches to find the best one.",

	901: "I tend to pause and think things through rather than relying on my gut instinct.",
	902: "I double-check my reasoning before committing to a final answer.",
	903: "I am more of a reflective person than an impulsive one.",
	904: "My gut feelings are something I check with logic, not something I blindly follow.",
	905: "I prefer to carefully consider all options before making a choice.",

	1001: "I feel it's important to stick to principles of fairness, even if it makes things difficult.",
	1002: "Doing the right thing is more important to me than being popular.",
	1003: "I believe that rules of fairness should apply to everyone equally, without exception.",
	1004: "I hold my ethical standards regardless of what others are doing.",
	1005: "An unfair outcome for others is something I work hard to prevent.",

	1102: "I generally assume people are telling the truth.",
	1103: "I find it easy to place my trust in others on a team.",
	1104: "I assume that my coworkers are competent and reliable.",
	1105: "I prefer to rely on the goodwill of others rather than being suspicious.",
}

// pairIDs lists the A/B statement ids for questions 1..40, in order.
var pairIDs = [TotalPairs][2]int{
	{103, 604},
	{204, 1003},
	{303, 902},
	{401, 804},
	{505, 1002},
	{602, 203},
	{704, 305},
	{1104, 805},
	{901, 601},
	{504, 1001},
	{104, 302},
	{201, 504},
	{404, 102},
	{802, 1105},
	{701, 903},
	{605, 503},
	{301, 703},
	{1004, 602},
	{202, 505},
	{403, 705},
	{105, 405},
	{801, 1102},
	{905, 502},
	{1005, 205},
	{303, 605},
	{702, 304},
	{103, 904},
	{501, 1004},
	{201, 504},
	{402, 803},
	{1103, 102},
	{603, 903},
	{703, 604},
	{305, 901},
	{105, 1105},
	{205, 905},
	{805, 1104},
	{405, 802},
	{1001, 201},
	{503, 303},
}
