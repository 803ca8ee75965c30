package scoring

import "caregiver-aptitude-service/internal/domain"

// DefaultQuizID is the ID under which the built-in quiz is served.
const DefaultQuizID = "caregiver-aptitude"

const (
	Manager domain.CategoryID = iota + 1
	SpecialNursingHome
	PaidNursingHome
	HealthFacility
	HomeHelp
	DayService
	GroupHome
	HomeCare
	FacilityCareManager
	ServicedHousing
)

// Categories lists the result categories in ID order.
//
//nolint:gochecknoglobals // static quiz content
var Categories = []domain.Category{
	{ID: Manager, Name: "管理職", Message: "【管理職】の傾向が強く見られました。あなたは感情的に安定し、組織の指示に従い、人当たりが良いという、弊社が求める拠点長の特性を特に満たしています。現場での専門性よりも、組織の調和と運営を重視する働き方が最適です。"},
	{ID: SpecialNursingHome, Name: "特別養護老人ホーム"},
	{ID: PaidNursingHome, Name: "有料老人ホーム"},
	{ID: HealthFacility, Name: "介護老人保健施設"},
	{ID: HomeHelp, Name: "訪問介護"},
	{ID: DayService, Name: "デイサービス"},
	{ID: GroupHome, Name: "グループホーム"},
	{ID: HomeCare, Name: "居宅（在宅）"},
	{ID: FacilityCareManager, Name: "施設のケアマネジャー"},
	{ID: ServicedHousing, Name: "サービス付き高齢者向け住宅や小規模多機能型居宅介護など"},
}

// Questions lists the ten questions in display order.
//
//nolint:gochecknoglobals // static quiz content
var Questions = []domain.Question{
	question("Q1", "働く上で最も重視するのは？",
		"組織全体の効率を考え、仕組みを改善・管理すること。",
		"利用者一人ひとりの暮らしに寄り添い、身体介護を丁寧に提供すること。"),
	question("Q2", "困難な状況での自分の強みは？",
		"感情的にならず、安定した精神で業務を淡々と遂行できる。",
		"専門性を活かし、課題解決のために活発に意見を出し、行動できる。"),
	question("Q3", "上司や組織の方針への態度は？",
		"自分の意見とは違っても、まずは上司の指示に従い、それを実行する。",
		"納得できない点があれば、改善を求めて積極的に自分の考えを主張する。"),
	question("Q4", "理想とするサービス提供は？",
		"居宅（自宅）での生活を支えるため、外部サービスを計画・調整する。",
		"施設（入居）での生活全般を支えるため、チームで深く関わる。"),
	question("Q5", "利用者さんとの関わり方で好むのは？",
		"小規模な環境で、認知症の方と家庭的に深く関わる。",
		"大規模な環境で、医療ニーズの高い方や看取りまで支援する。"),
	question("Q6", "サービス提供の「時間」として好むのは？",
		"利用者さんの自宅を訪問し、短時間・一対一の支援を行う。",
		"施設や事業所で、日中または24時間体制で勤務する。"),
	question("Q7", "サービスの目的として共感するのは？",
		"在宅復帰やリハビリを重視し、自立を促す集中的な支援。",
		"生活の継続を第一に、日々の活動を一緒に楽しみ、レクリエーションを行う。"),
	question("Q8", "職場の「雰囲気」として理想的なのは？",
		"多くの専門職が連携し、医療的ケアにも対応できる手厚い環境。",
		"職員数が少なく、地域との連携も活発な複合的なサービスを提供する環境。"),
	question("Q9", "自分の人柄を表すならどちら？",
		"積極的に前に出て引っ張るリーダーシップがある。",
		"誰に対しても温厚で人当たりが良く、穏やかに接することができる。"),
	question("Q10", "仕事における自身の成長意欲は？",
		"現状維持を望み、ストレスに鈍感でいることの安定性を重視する。",
		"専門性を常に高め、新しい知識や技術の習得に意欲的に取り組む。"),
}

// Rules is the scoring table: each (question, answer) awards one point to its targets.
//
//nolint:gochecknoglobals // static quiz content
var Rules = map[domain.RuleKey][]domain.CategoryID{
	{Question: "Q1", Answer: domain.AnswerA}:  {Manager, FacilityCareManager},
	{Question: "Q1", Answer: domain.AnswerB}:  {SpecialNursingHome, PaidNursingHome, HealthFacility, HomeHelp, DayService, GroupHome, ServicedHousing},
	{Question: "Q2", Answer: domain.AnswerA}:  {Manager},
	{Question: "Q2", Answer: domain.AnswerB}:  {SpecialNursingHome, HealthFacility, HomeHelp, HomeCare, FacilityCareManager},
	{Question: "Q3", Answer: domain.AnswerA}:  {Manager},
	{Question: "Q3", Answer: domain.AnswerB}:  {SpecialNursingHome, PaidNursingHome, HealthFacility, DayService, GroupHome},
	{Question: "Q4", Answer: domain.AnswerA}:  {HomeCare, FacilityCareManager},
	{Question: "Q4", Answer: domain.AnswerB}:  {SpecialNursingHome, PaidNursingHome, HealthFacility, GroupHome},
	{Question: "Q5", Answer: domain.AnswerA}:  {GroupHome},
	{Question: "Q5", Answer: domain.AnswerB}:  {SpecialNursingHome, PaidNursingHome},
	{Question: "Q6", Answer: domain.AnswerA}:  {HomeHelp},
	{Question: "Q6", Answer: domain.AnswerB}:  {SpecialNursingHome, PaidNursingHome, HealthFacility, DayService, GroupHome, ServicedHousing},
	{Question: "Q7", Answer: domain.AnswerA}:  {HealthFacility},
	{Question: "Q7", Answer: domain.AnswerB}:  {DayService},
	{Question: "Q8", Answer: domain.AnswerA}:  {SpecialNursingHome, PaidNursingHome, HealthFacility},
	{Question: "Q8", Answer: domain.AnswerB}:  {ServicedHousing},
	{Question: "Q9", Answer: domain.AnswerA}:  {SpecialNursingHome, PaidNursingHome, HealthFacility, HomeHelp, DayService, GroupHome, HomeCare, FacilityCareManager, ServicedHousing},
	{Question: "Q9", Answer: domain.AnswerB}:  {Manager},
	{Question: "Q10", Answer: domain.AnswerA}: {Manager},
	{Question: "Q10", Answer: domain.AnswerB}: {SpecialNursingHome, PaidNursingHome, HealthFacility, HomeHelp, DayService, GroupHome, HomeCare, FacilityCareManager, ServicedHousing},
}

const (
	fallbackMessage = "あなたの適職は現場での専門性や特定のケアスタイルを活かせる職種です。"
	allTiedMessage  = "全ての適職が同点でした！"
)

// DefaultQuiz assembles the built-in quiz definition from the static tables.
func DefaultQuiz() domain.Quiz {
	rules := make([]domain.Rule, 0, len(Rules))
	for _, q := range Questions {
		for _, opt := range q.Options {
			targets, ok := Rules[domain.RuleKey{Question: q.ID, Answer: opt.Code}]
			if !ok {
				continue
			}
			rules = append(rules, domain.Rule{
				Question: q.ID,
				Answer:   opt.Code,
				Targets:  append([]domain.CategoryID(nil), targets...),
			})
		}
	}
	return domain.Quiz{
		ID:              DefaultQuizID,
		Title:           "介護職の適職診断（全10問）",
		Categories:      append([]domain.Category(nil), Categories...),
		Questions:       append([]domain.Question(nil), Questions...),
		Rules:           rules,
		FallbackMessage: fallbackMessage,
		AllTiedMessage:  allTiedMessage,
	}
}

func question(id domain.QuestionID, title, a, b string) domain.Question {
	return domain.Question{
		ID:    id,
		Title: title,
		Options: []domain.Option{
			{Code: domain.AnswerA, Text: a},
			{Code: domain.AnswerB, Text: b},
		},
	}
}
