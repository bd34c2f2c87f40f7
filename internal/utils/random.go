package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleScheduler,
	domain.RoleChief,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var specialties = []string{
	"心血管内科", "呼吸内科", "消化内科", "神经内科", "内分泌科",
	"普通外科", "骨科", "泌尿外科", "妇产科", "儿科",
	"急诊科", "麻醉科", "皮肤科", "眼科", "耳鼻喉科",
}

func GenerateRandomPhysician() *domain.Physician {
	return &domain.Physician{
		LastName:  commonSurnames[rand.Intn(len(commonSurnames))],
		Specialty: specialties[rand.Intn(len(specialties))],
	}
}

var cities = []string{"广州", "深圳", "佛山", "东莞", "珠海", "中山", "惠州"}

var institutionCategories = []domain.InstitutionCategory{
	domain.CategoryGeneralHospital,
	domain.CategorySpecialtyClinic,
	domain.CategoryCommunityStation,
}

func GenerateRandomInstitution() *domain.Institution {
	city := cities[rand.Intn(len(cities))]
	category := institutionCategories[rand.Intn(len(institutionCategories))]
	ordinal := rand.Intn(9) + 1

	// 简称取城市拼音首字母加序号，例如 gz3
	abbreviation := ""
	for _, p := range pinyin.LazyConvert(city, nil) {
		abbreviation += p[:1]
	}

	return &domain.Institution{
		Name:         fmt.Sprintf("%s市第%d%s", city, ordinal, category),
		Abbreviation: fmt.Sprintf("%s%d", abbreviation, ordinal),
		City:         city,
		Category:     category,
	}
}
