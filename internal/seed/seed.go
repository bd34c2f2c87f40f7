package seed

import (
	"log/slog"

	"github.com/careport-dev/duty-manager/backend/internal/domain"
	"github.com/careport-dev/duty-manager/backend/internal/repository"
	"github.com/careport-dev/duty-manager/backend/internal/rules"
)

// 真实数据来自试点医联体的机构和医生名单，金规则使用试点阶段的约定值

var realInstitutions = []domain.Institution{
	{Name: "广州市第一人民医院", Abbreviation: "gzsy", City: "广州", Category: domain.CategoryGeneralHospital},
	{Name: "中山大学附属第三医院", Abbreviation: "zssy", City: "广州", Category: domain.CategoryGeneralHospital},
	{Name: "天河区心血管专科门诊", Abbreviation: "thxg", City: "广州", Category: domain.CategorySpecialtyClinic},
	{Name: "越秀区儿科专科门诊", Abbreviation: "yxek", City: "广州", Category: domain.CategorySpecialtyClinic},
	{Name: "海珠区江南中社区服务站", Abbreviation: "hzjn", City: "广州", Category: domain.CategoryCommunityStation},
	{Name: "荔湾区沙面社区服务站", Abbreviation: "lwsm", City: "广州", Category: domain.CategoryCommunityStation},
	{Name: "佛山市第一人民医院", Abbreviation: "fsyy", City: "佛山", Category: domain.CategoryGeneralHospital},
	{Name: "佛山市禅城区皮肤专科门诊", Abbreviation: "fspf", City: "佛山", Category: domain.CategorySpecialtyClinic},
}

var realPhysicians = []domain.Physician{
	{LastName: "陈", Specialty: "心血管内科"},
	{LastName: "林", Specialty: "心血管内科"},
	{LastName: "黄", Specialty: "呼吸内科"},
	{LastName: "张", Specialty: "消化内科"},
	{LastName: "刘", Specialty: "神经内科"},
	{LastName: "王", Specialty: "普通外科"},
	{LastName: "李", Specialty: "骨科"},
	{LastName: "周", Specialty: "儿科"},
	{LastName: "吴", Specialty: "急诊科"},
	{LastName: "郑", Specialty: "皮肤科"},
}

// SeedRealData 插入试点机构和医生，并写入一份带分组的默认金规则。
// 分组按机构类别划分，限制集合留空，由排班专员按需维护
func SeedRealData(r *repository.Repository) {
	institutionIDsByCategory := make(map[domain.InstitutionCategory][]int64)

	cnt := 0
	for i := range realInstitutions {
		institution := realInstitutions[i]
		if err := r.CreateInstitution(&institution); err != nil {
			slog.Error("无法插入机构", "name", institution.Name, "error", err)
			continue
		}

		institutionIDsByCategory[institution.Category] = append(institutionIDsByCategory[institution.Category], institution.ID)
		cnt++
	}
	slog.Info("插入机构成功", "count", cnt)

	cnt = 0
	for i := range realPhysicians {
		physician := realPhysicians[i]
		if err := r.CreatePhysician(&physician); err != nil {
			slog.Error("无法插入医生", "lastName", physician.LastName, "error", err)
			continue
		}

		cnt++
	}
	slog.Info("插入医生成功", "count", cnt)

	rs := rules.NewRuleSet()

	groupNames := map[domain.InstitutionCategory]string{
		domain.CategoryGeneralHospital:  "综合医院组",
		domain.CategorySpecialtyClinic:  "专科门诊组",
		domain.CategoryCommunityStation: "社区服务站组",
	}

	for category, name := range groupNames {
		if err := rs.CreateGroup(name); err != nil {
			slog.Error("无法创建分组", "name", name, "error", err)
			continue
		}

		for _, id := range institutionIDsByCategory[category] {
			if err := rs.ToggleGroupMember(name, id); err != nil {
				slog.Error("无法添加分组成员", "name", name, "institutionID", id, "error", err)
			}
		}
	}

	if err := r.SaveGoldenRules(rs.Document()); err != nil {
		slog.Error("无法写入金规则", "error", err)
		return
	}
	slog.Info("写入金规则成功")
}
