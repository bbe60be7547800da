package provider

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength  = 255
	maxPhoneLength = 20
)

// validate 与gin绑定校验使用同一套email规则
var validate = validator.New()

// Provider 供应商
// Email可为空;非空时全局唯一
type Provider struct {
	ID        uint
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProvider 创建供应商
func NewProvider(name, phone, email string) (*Provider, error) {
	p := &Provider{}
	if err := p.apply(name, phone, email); err != nil {
		return nil, err
	}
	p.CreatedAt = p.UpdatedAt
	return p, nil
}

// Update 修改信息,nil表示不修改;Phone/Email指向空串表示清空
func (p *Provider) Update(name, phone, email *string) error {
	n, ph, em := p.Name, p.Phone, p.Email
	if name != nil {
		n = *name
	}
	if phone != nil {
		ph = *phone
	}
	if email != nil {
		em = *email
	}
	return p.apply(n, ph, em)
}

func (p *Provider) apply(name, phone, email string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)

	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(phone) > maxPhoneLength {
		return ErrInvalidPhone
	}
	if email != "" {
		if err := validate.Var(email, "email,max=255"); err != nil {
			return ErrInvalidEmail
		}
	}

	p.Name, p.Phone, p.Email = name, phone, email
	p.UpdatedAt = time.Now()
	return nil
}
