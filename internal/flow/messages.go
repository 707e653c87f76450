package flow

import "github.com/Domenick1991/paraglide/internal/domain"

var messages = map[Reason][2]string{
	ReasonLocationUnavailable: {"Vui lòng chọn điểm bay hợp lệ.", "Please choose an available flight location."},
	ReasonLocationUnpriced:    {"Điểm bay này chưa có giá, vui lòng liên hệ hoặc chọn điểm khác.", "This location has no price yet. Please contact us or choose another location."},
	ReasonDateRequired:        {"Vui lòng chọn ngày bay.", "Please choose a flight date."},
	ReasonDateTooEarly:        {"Ngày bay phải từ ngày mai trở đi.", "The flight date must be tomorrow or later."},
	ReasonTimeSlotRequired:    {"Vui lòng chọn khung giờ bay.", "Please choose a time slot."},
	ReasonTimeSlotInvalid:     {"Khung giờ bay không hợp lệ.", "This time slot is not available."},
	ReasonPhoneRequired:       {"Vui lòng nhập số điện thoại.", "Please enter a phone number."},
	ReasonEmailRequired:       {"Vui lòng nhập email.", "Please enter an email address."},
	ReasonGuestsMismatch:      {"Thông tin khách không khớp số lượng khách.", "Guest details do not match the number of guests."},
	ReasonNameRequired:        {"Vui lòng nhập họ tên.", "Please enter the full name."},
	ReasonIDRequired:          {"Vui lòng nhập số CCCD/hộ chiếu.", "Please enter an ID or passport number."},
	ReasonWeightInvalid:       {"Cân nặng phải lớn hơn 0.", "Weight must be greater than zero."},
	ReasonBirthDateRequired:   {"Vui lòng nhập ngày sinh.", "Please enter the date of birth."},
	ReasonBirthDateInvalid:    {"Ngày sinh không hợp lệ.", "The date of birth is not valid."},
	ReasonTermsRequired:       {"Vui lòng đồng ý với điều khoản.", "Please accept the terms and conditions."},
}

func message(r Reason, lang domain.Language) string {
	m, ok := messages[r]
	if !ok {
		return string(r)
	}
	if lang == domain.LanguageEN {
		return m[1]
	}
	return m[0]
}
