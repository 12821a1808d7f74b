package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	ChatFallback       = "Desculpe, não foi possível processar sua solicitação no momento. Tente novamente mais tarde."
	SummaryUnavailable = "Dados do inventário não disponíveis no momento."
)

var chatSuggestions = []string{
	"Resumo geral do inventário",
	"Equipamentos em manutenção",
	"Licenças expirando em 30 dias",
	"Equipamentos sem responsável",
	"Status dos equipamentos por departamento",
	"Fornecedores com mais equipamentos",
	"Equipamentos por tipo",
	"Manutenções pendentes",
}

var chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chat_requests_total",
	Help: "Chat questions by outcome",
}, []string{"outcome"})

// Generator 文本生成后端
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SummaryProvider interface {
	Summary(ctx context.Context) (*Summary, error)
}

type ChatService struct {
	gen     Generator
	summary SummaryProvider
	log     *zap.Logger
}

func NewChatService(gen Generator, summary SummaryProvider, log *zap.Logger) *ChatService {
	return &ChatService{gen: gen, summary: summary, log: log.Named("chat")}
}

func (s *ChatService) Suggestions() []string {
	return append([]string(nil), chatSuggestions...)
}

// Ask 上游失败时返回固定的兜底文案，不返回错误
func (s *ChatService) Ask(ctx context.Context, in ChatInput) string {
	summary := SummaryUnavailable
	if sm, err := s.summary.Summary(ctx); err != nil {
		s.log.Warn("inventory summary failed", zap.Error(err))
	} else {
		summary = FormatSummary(sm)
	}

	answer, err := s.gen.Generate(ctx, BuildPrompt(summary, in.Message, in.Context))
	if err != nil {
		chatRequests.WithLabelValues("fallback").Inc()
		s.log.Error("llm generate failed", zap.Error(err))
		return ChatFallback
	}
	chatRequests.WithLabelValues("ok").Inc()
	return answer
}

func FormatSummary(sm *Summary) string {
	status := make([]string, 0, len(sm.ByStatus))
	for _, c := range sm.ByStatus {
		status = append(status, fmt.Sprintf("%s: %d", c.Status, c.Count))
	}
	vendors := make([]string, 0, len(sm.TopVendors))
	for _, v := range sm.TopVendors {
		vendors = append(vendors, fmt.Sprintf("%s (%d itens)", v.Name, v.Count))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Total de equipamentos: %d\n", sm.TotalHardware)
	fmt.Fprintf(&b, "Equipamentos por status: %s\n", strings.Join(status, ", "))
	fmt.Fprintf(&b, "Total de licenças: %d\n", sm.TotalLicenses)
	fmt.Fprintf(&b, "Licenças expirando em 30 dias: %d\n", sm.LicensesIn30Days)
	fmt.Fprintf(&b, "Manutenções abertas: %d\n", sm.OpenMaintenances)
	fmt.Fprintf(&b, "Principais fornecedores: %s", strings.Join(vendors, ", "))
	return b.String()
}

func BuildPrompt(summary, message, extra string) string {
	var b strings.Builder
	b.WriteString("Você é um assistente especializado em inventário de TI da empresa MB Consultoria.\n\n")
	b.WriteString("Contexto atual do inventário:\n")
	b.WriteString(summary)
	b.WriteString("\n\n")
	if extra = strings.TrimSpace(extra); extra != "" {
		b.WriteString("Contexto adicional da conversa:\n")
		b.WriteString(extra)
		b.WriteString("\n\n")
	}
	b.WriteString("Pergunta do usuário: ")
	b.WriteString(message)
	b.WriteString("\n\n")
	b.WriteString("Responda de forma clara e objetiva, focando nos dados do inventário.\n")
	b.WriteString("Se a pergunta não for relacionada ao inventário, informe que você só pode ajudar com questões de inventário de TI.\n")
	b.WriteString("Mantenha a resposta em português brasileiro.")
	return b.String()
}
