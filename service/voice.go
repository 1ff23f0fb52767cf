package service

import (
	"context"
	"fmt"
	"strings"

	"fintrack/repository"

	"github.com/shopspring/decimal"
)

const (
	voiceSpentOn       = "spent on "
	voiceNotUnderstood = "I didn't understand that command."
)

// VoiceService 处理简单的语音文本指令
type VoiceService struct {
	store *repository.Store
}

// NewVoiceService 创建语音指令服务
func NewVoiceService(store *repository.Store) *VoiceService {
	return &VoiceService{store: store}
}

// Handle 识别 "spent on <类别>" 指令，返回该类别的支出合计；类别比较不区分大小写
func (s *VoiceService) Handle(ctx context.Context, userID, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", validationError("command", "required")
	}

	category, ok := parseSpentOn(command)
	if !ok {
		return voiceNotUnderstood, nil
	}

	expenses, err := s.store.Expenses.List(ctx, userID)
	if err != nil {
		return "", err
	}
	total := decimal.Zero
	for _, e := range expenses {
		if strings.EqualFold(e.Category, category) {
			total = total.Add(decimal.NewFromFloat(e.Amount))
		}
	}
	return fmt.Sprintf("You spent $%s on %s.", total.StringFixed(2), category), nil
}

func parseSpentOn(command string) (string, bool) {
	idx := indexFoldASCII(command, voiceSpentOn)
	if idx < 0 {
		return "", false
	}
	category := strings.TrimSpace(command[idx+len(voiceSpentOn):])
	category = strings.TrimRight(category, "?.!")
	category = strings.TrimSpace(category)
	return category, category != ""
}

// indexFoldASCII 按 ASCII 忽略大小写查找 sub（需为小写 ASCII），返回原字符串中的字节下标
// UTF-8 多字节序列中不会出现 ASCII 字节，因此按字节比较不会误匹配
func indexFoldASCII(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		matched := true
		for j := 0; j < len(sub); j++ {
			c := s[i+j]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != sub[j] {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}
