package locale

var defaults = map[Lang]map[Key]string{
	Persian: {
		Welcome: `🎵 *به ربات شناسایی موسیقی خوش آمدید!*

من می‌توانم آهنگ‌ها را از طریق فایل‌های صوتی شناسایی کنم.

*قابلیت‌های من:*
🔍 شناسایی آهنگ از فایل صوتی
🌐 جستجوی آهنگ در گروه‌ها (Inline Mode)
✏️ ویرایش اطلاعات آهنگ
🌍 پشتیبانی از دو زبان فارسی و انگلیسی

*نحوه استفاده:*
1. یک فایل صوتی برایم بفرستید
2. در گروه‌ها از @%s استفاده کنید
3. از دکمه‌های شیشه‌ای برای ویرایش اطلاعات استفاده کنید

برای شروع، زبان خود را انتخاب کنید:`,
		Help: `*راهنمای استفاده از ربات:*

🎵 *شناسایی آهنگ:*
- یک فایل صوتی ارسال کنید
- ربات به صورت خودکار آهنگ را شناسایی می‌کند

🌐 *جستجوی در گروه‌ها:*
- در هر گروهی تایپ کنید: ` + "`@%s نام آهنگ`" + `
- نتایج جستجو به صورت inline نمایش داده می‌شود

✏️ *ویرایش اطلاعات:*
- پس از شناسایی آهنگ، دکمه "ویرایش اطلاعات" را بزنید
- اطلاعات آهنگ را ویرایش کنید

🌍 *تغییر زبان:*
- دستور ` + "`/start`" + ` را ارسال کنید
- زبان مورد نظر را انتخاب کنید`,
		LanguagePrompt: "لطفاً زبان خود را انتخاب کنید:",
		LanguageSet:    "✅ زبان شما با موفقیت تنظیم شد!",

		Processing:        "⏳ در حال پردازش فایل صوتی...",
		Recognizing:       "🔍 در حال شناسایی آهنگ...",
		Success:           "✅ آهنگ با موفقیت شناسایی شد!",
		Failed:            "❌ متأسفانه نتوانستم آهنگ را شناسایی کنم.",
		NoFile:            "❌ لطفاً یک فایل صوتی معتبر ارسال کنید.",
		FileTooLarge:      "❌ حجم فایل بیش از حد مجاز است (حداکثر %s).",
		UnsupportedFormat: "❌ فرمت فایل پشتیبانی نمی‌شود.",
		Timeout:           "❌ زمان شناسایی به پایان رسید. لطفاً دوباره تلاش کنید.",
		SlowDown:          "⏳ درخواست‌های شما زیاد است. لطفاً کمی صبر کنید.",
		GenericError:      "❌ خطایی رخ داد. لطفاً بعداً دوباره تلاش کنید.",

		ResultHeading:  "🎵 آهنگ شناسایی شد!",
		UpdatedHeading: "🎵 اطلاعات به‌روزرسانی شده آهنگ:",
		LabelTitle:     "🎼 عنوان:",
		LabelArtist:    "🎤 هنرمند:",
		LabelAlbum:     "💿 آلبوم:",
		LabelYear:      "📅 سال:",
		LabelGenre:     "🎭 ژانر:",

		EditMenu:       "✏️ *ویرایش اطلاعات آهنگ*\n\nکدام اطلاعات را می‌خواهید ویرایش کنید؟",
		PromptTitle:    "عنوان آهنگ را وارد کنید:",
		PromptArtist:   "نام هنرمند را وارد کنید:",
		PromptAlbum:    "نام آلبوم را وارد کنید:",
		PromptGenre:    "ژانر موسیقی را وارد کنید:",
		PromptYear:     "سال انتشار را وارد کنید:",
		EditSuccess:    "✅ اطلاعات آهنگ با موفقیت ویرایش شد!",
		EditCancel:     "❌ ویرایش لغو شد.",
		SessionExpired: "❌ جلسه منقضی شده است. لطفاً فایل صوتی را دوباره ارسال کنید.",
		SearchAgain:    "🔍 یک فایل صوتی دیگر برای شناسایی ارسال کنید.",
		Saved:          "💾 اطلاعات در فایل ذخیره شد.",
		SaveFailed:     "❌ ذخیره اطلاعات در فایل ممکن نیست.",

		ButtonPersian:     "🇮🇷 فارسی",
		ButtonEnglish:     "🇺🇸 English",
		ButtonEdit:        "✏️ ویرایش اطلاعات آهنگ",
		ButtonBack:        "🔙 بازگشت",
		ButtonCancel:      "❌ لغو",
		ButtonSave:        "💾 ذخیره",
		ButtonSearchAgain: "🔍 جستجوی مجدد",
		ButtonTitle:       "🎼 عنوان",
		ButtonArtist:      "🎤 هنرمند",
		ButtonAlbum:       "💿 آلبوم",
		ButtonGenre:       "🎭 ژانر",
		ButtonYear:        "📅 سال",

		NoResults:   "❌ هیچ آهنگی یافت نشد.",
		SearchError: "❌ خطا در جستجو. لطفاً دوباره تلاش کنید.",
		FoundVia:    "یافته شده با @%s",
		Stats:       "📊 کاربران: %d\n🎵 شناسایی‌ها: %d",
		StatsBackup: "💾 کاربران ذخیره شده: %d",
		StatsRecent: "🕘 آخرین شناسایی‌ها:",
	},
	English: {
		Welcome: `🎵 *Welcome to Music Recognition Bot!*

I can identify songs from audio files.

*My Features:*
🔍 Identify songs from audio files
🌐 Search songs in groups (Inline Mode)
✏️ Edit song information
🌍 Support for Persian and English languages

*How to use:*
1. Send me an audio file
2. Use @%s in groups
3. Use inline buttons to edit information

To get started, select your language:`,
		Help: `*Bot Usage Guide:*

🎵 *Song Recognition:*
- Send an audio file
- Bot will automatically identify the song

🌐 *Search in Groups:*
- Type in any group: ` + "`@%s song name`" + `
- Search results will be shown inline

✏️ *Edit Information:*
- After song identification, click "Edit Song Info"
- Edit the song information

🌍 *Change Language:*
- Send ` + "`/start`" + ` command
- Select your preferred language`,
		LanguagePrompt: "Please select your language:",
		LanguageSet:    "✅ Your language has been set successfully!",

		Processing:        "⏳ Processing audio file...",
		Recognizing:       "🔍 Recognizing song...",
		Success:           "✅ Song successfully identified!",
		Failed:            "❌ Sorry, I couldn't identify the song.",
		NoFile:            "❌ Please send a valid audio file.",
		FileTooLarge:      "❌ File size exceeds limit (max %s).",
		UnsupportedFormat: "❌ File format not supported.",
		Timeout:           "❌ Recognition timeout. Please try again.",
		SlowDown:          "⏳ Too many requests. Please wait a moment.",
		GenericError:      "❌ An error occurred. Please try again later.",

		ResultHeading:  "🎵 Song Identified!",
		UpdatedHeading: "🎵 Updated Song Information:",
		LabelTitle:     "🎼 Title:",
		LabelArtist:    "🎤 Artist:",
		LabelAlbum:     "💿 Album:",
		LabelYear:      "📅 Year:",
		LabelGenre:     "🎭 Genre:",

		EditMenu:       "✏️ *Edit Song Information*\n\nWhich information would you like to edit?",
		PromptTitle:    "Enter song title:",
		PromptArtist:   "Enter artist name:",
		PromptAlbum:    "Enter album name:",
		PromptGenre:    "Enter music genre:",
		PromptYear:     "Enter release year:",
		EditSuccess:    "✅ Song information successfully edited!",
		EditCancel:     "❌ Editing cancelled.",
		SessionExpired: "❌ Session expired. Please send the audio file again.",
		SearchAgain:    "🔍 Send me another audio file to identify.",
		Saved:          "💾 Song information written to the file.",
		SaveFailed:     "❌ Couldn't write the information to the file.",

		ButtonPersian:     "🇮🇷 Persian",
		ButtonEnglish:     "🇺🇸 English",
		ButtonEdit:        "✏️ Edit Song Info",
		ButtonBack:        "🔙 Back",
		ButtonCancel:      "❌ Cancel",
		ButtonSave:        "💾 Save",
		ButtonSearchAgain: "🔍 Search Again",
		ButtonTitle:       "🎼 Title",
		ButtonArtist:      "🎤 Artist",
		ButtonAlbum:       "💿 Album",
		ButtonGenre:       "🎭 Genre",
		ButtonYear:        "📅 Year",

		NoResults:   "❌ No songs found.",
		SearchError: "❌ Search error. Please try again.",
		FoundVia:    "Found via @%s",
		Stats:       "📊 Users: %d\n🎵 Recognitions: %d",
		StatsBackup: "💾 Backed up users: %d",
		StatsRecent: "🕘 Recent recognitions:",
	},
}
